//go:build sdl2

// Package sdl2 is a windowed front-end built on go-sdl2: it renders the
// core's framebuffer to a scaled SDL texture and maps keyboard input onto
// the joypad, polling the Core API (New/RunFrame/SetButtons/SRAMSnapshot)
// from outside — it never reaches into the core's internals. Building it
// requires SDL2 development libraries installed; default builds use the
// stub in stub.go instead, matching the teacher's own sdl2 build tag.
package sdl2

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/nullterm/gbcore"
	"github.com/nullterm/gbcore/timing"
	"github.com/nullterm/gbcore/video"
)

const pixelScale = 4

// keyMapping maps an SDL scancode to a joypad button bit, in the bit order
// gbcore.Core.SetButtons expects (Right, Left, Up, Down, A, B, Select, Start).
var keyMapping = map[sdl.Scancode]uint8{
	sdl.SCANCODE_RIGHT: 1 << 0,
	sdl.SCANCODE_LEFT:  1 << 1,
	sdl.SCANCODE_UP:    1 << 2,
	sdl.SCANCODE_DOWN:  1 << 3,
	sdl.SCANCODE_X:     1 << 4, // A
	sdl.SCANCODE_Z:     1 << 5, // B
	sdl.SCANCODE_BACKSPACE: 1 << 6, // Select
	sdl.SCANCODE_RETURN:    1 << 7, // Start
}

// shadeRGBA maps a DMG 2-bit shade index to an opaque RGBA byte quad,
// darkest first, matching video.ByteToColor's Black..White ordering.
var shadeRGBA = [4][4]byte{
	{0x00, 0x00, 0x00, 0xFF},
	{0x4C, 0x4C, 0x4C, 0xFF},
	{0x98, 0x98, 0x98, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
}

// Backend renders one Core's framebuffer to an SDL2 window.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	core    *gbcore.Core
	limiter timing.Limiter

	pixels []byte
	quit   bool
}

// New creates and shows an SDL2 window sized to the DMG screen scaled by
// pixelScale, wrapped around core.
func New(core *gbcore.Core) (*Backend, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl2: failed to initialize SDL: %w", err)
	}

	window, err := sdl.CreateWindow(
		"jeebie",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		video.FramebufferWidth*pixelScale, video.FramebufferHeight*pixelScale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: failed to create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA32, sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth, video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: failed to create texture: %w", err)
	}

	return &Backend{
		window:   window,
		renderer: renderer,
		texture:  texture,
		core:     core,
		limiter:  timing.NewFixedLimiter(),
		pixels:   make([]byte, video.FramebufferSize*4),
	}, nil
}

// Close tears down the SDL window and subsystems.
func (b *Backend) Close() {
	b.texture.Destroy()
	b.renderer.Destroy()
	b.window.Destroy()
	sdl.Quit()
}

// Run drives the core at the DMG frame rate until the window is closed or
// Escape is pressed, rendering each frame and relaying joypad input.
func (b *Backend) Run() error {
	defer b.Close()

	for {
		b.pollInput()
		if b.quit {
			return nil
		}
		b.core.SetButtons(b.heldMask())

		frame := b.core.RunFrame()
		if err := b.render(frame); err != nil {
			return err
		}

		b.limiter.WaitForNextFrame()
	}
}

func (b *Backend) pollInput() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			b.quit = true
		case *sdl.KeyboardEvent:
			if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				b.quit = true
			}
		}
	}
}

func (b *Backend) heldMask() uint8 {
	keys := sdl.GetKeyboardState()
	var mask uint8
	for scancode, button := range keyMapping {
		if keys[scancode] != 0 {
			mask |= button
		}
	}
	return mask
}

func (b *Backend) render(frame *video.FrameBuffer) error {
	grayscale := frame.ToGrayscale()
	for i, shade := range grayscale {
		copy(b.pixels[i*4:i*4+4], shadeRGBA[shade][:])
	}

	if err := b.texture.Update(nil, b.pixels, video.FramebufferWidth*4); err != nil {
		return fmt.Errorf("sdl2: texture update failed: %w", err)
	}

	b.renderer.Clear()
	b.renderer.Copy(b.texture, nil, nil)
	b.renderer.Present()
	return nil
}
