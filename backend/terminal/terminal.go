// Package terminal is a tcell-based front-end: it renders the core's
// framebuffer as half-block characters and maps keyboard input onto the
// joypad, polling the Core API (New/RunFrame/SetButtons/SRAMSnapshot) from
// outside — it never reaches into the core's internals.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/nullterm/gbcore"
	"github.com/nullterm/gbcore/timing"
	"github.com/nullterm/gbcore/video"
)

// keyHoldTimeout is how long a key keeps registering as "held" after its
// last keypress event. Terminals don't report key-up, only key-down (and,
// for held keys, repeated key-down at the terminal's auto-repeat rate), so
// a button is considered released once no repeat arrives within this window.
const keyHoldTimeout = 100 * time.Millisecond

// shadeColors maps a DMG 2-bit shade index to a terminal color, darkest
// first, matching video.ByteToColor's Black..White ordering.
var shadeColors = []tcell.Color{
	tcell.ColorBlack,
	tcell.ColorGray,
	tcell.ColorSilver,
	tcell.ColorWhite,
}

// keyMapping maps a key rune to a joypad button bit, in the bit order
// gbcore.Core.SetButtons expects (Right, Left, Up, Down, A, B, Select, Start).
var keyMapping = map[rune]uint8{
	'd': 1 << 0, // Right
	'a': 1 << 1, // Left
	'w': 1 << 2, // Up
	's': 1 << 3, // Down
	'k': 1 << 4, // A
	'j': 1 << 5, // B
	'n': 1 << 6, // Select
	'm': 1 << 7, // Start
}

// Backend renders one Core's framebuffer to a terminal screen.
type Backend struct {
	screen  tcell.Screen
	core    *gbcore.Core
	limiter timing.Limiter

	lastPress map[uint8]time.Time
	quit      bool
}

// New initializes a tcell screen and wraps it around core.
func New(core *gbcore.Core) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: failed to initialize screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: failed to initialize screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &Backend{
		screen:    screen,
		core:      core,
		limiter:   timing.NewFixedLimiter(),
		lastPress: make(map[uint8]time.Time),
	}, nil
}

// Close restores the terminal.
func (b *Backend) Close() {
	b.screen.Fini()
}

// Run drives the core at the DMG frame rate until the user quits (Esc or
// Ctrl+C), rendering each frame and relaying joypad input.
func (b *Backend) Run() error {
	defer b.Close()

	for {
		b.pollInput()
		if b.quit {
			return nil
		}
		b.core.SetButtons(b.heldMask())

		frame := b.core.RunFrame()
		b.render(frame)

		b.limiter.WaitForNextFrame()
	}
}

func (b *Backend) pollInput() {
	for b.screen.HasPendingEvent() {
		switch ev := b.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				b.quit = true
				return
			}
			if ev.Key() == tcell.KeyRune {
				if mask, ok := keyMapping[ev.Rune()]; ok {
					b.lastPress[mask] = time.Now()
				}
			}
		case *tcell.EventResize:
			b.screen.Sync()
		}
	}
}

// heldMask treats a button as currently held as long as a repeat arrived
// within keyHoldTimeout.
func (b *Backend) heldMask() uint8 {
	now := time.Now()
	var mask uint8
	for button, last := range b.lastPress {
		if now.Sub(last) < keyHoldTimeout {
			mask |= button
		}
	}
	return mask
}

// render draws the framebuffer using unicode half-blocks, packing two
// vertical pixels into one terminal cell via distinct foreground/background
// colors.
func (b *Backend) render(frame *video.FrameBuffer) {
	grayscale := frame.ToGrayscale()

	for y := 0; y < video.FramebufferHeight; y += 2 {
		for x := 0; x < video.FramebufferWidth; x++ {
			top := grayscale[y*video.FramebufferWidth+x]
			bottom := byte(0)
			if y+1 < video.FramebufferHeight {
				bottom = grayscale[(y+1)*video.FramebufferWidth+x]
			}
			style := tcell.StyleDefault.Foreground(shadeColors[top]).Background(shadeColors[bottom])
			b.screen.SetContent(x, y/2, '▀', nil, style) // upper half block
		}
	}

	b.screen.Show()
}
