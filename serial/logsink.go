// Package serial implements the SB/SC serial port as a diagnostic sink:
// DMG test ROMs (blargg's suite in particular) write their pass/fail
// output one byte at a time over the link cable, and this package captures
// it as readable log lines instead of requiring a second linked Game Boy.
package serial

import (
	"log/slog"

	"github.com/nullterm/gbcore/addr"
	"github.com/nullterm/gbcore/bit"
)

// LogSink implements the memory.SerialPort interface, logging every
// completed transfer as text rather than exchanging bytes with a peer.
type LogSink struct {
	irqHandler     func()
	sb, sc         uint8
	transferActive bool
	countdown      int
	logger         *slog.Logger

	immediate bool
	defaultRX uint8

	line []byte
}

type LogSinkOption func(*LogSink)

// WithFixedTiming makes transfers complete after the ~4096-cycle delay a
// real byte takes on the internal clock, instead of instantly.
func WithFixedTiming() LogSinkOption {
	return func(s *LogSink) { s.immediate = false }
}

// WithLogger overrides the slog.Logger lines are emitted to.
func WithLogger(logger *slog.Logger) LogSinkOption {
	return func(s *LogSink) { s.logger = logger }
}

// NewLogSink returns a serial port that logs outgoing bytes and invokes irq
// (expected to request the Serial interrupt) when a transfer completes.
func NewLogSink(irq func(), opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		irqHandler: irq,
		immediate:  true,
		defaultRX:  0xFF,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

func (s *LogSink) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		s.maybeStartTransfer()
	default:
		panic("serial: invalid write address")
	}
}

func (s *LogSink) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc
	default:
		panic("serial: invalid read address")
	}
}

func (s *LogSink) Tick(cycles int) {
	if s.immediate || !s.transferActive {
		return
	}
	s.countdown -= cycles
	if s.countdown <= 0 {
		s.completeTransfer()
		s.countdown = 0
	}
}

// Reset restores the port to its post-boot, idle state.
func (s *LogSink) Reset() {
	s.sb = 0x00
	s.sc = 0x00
	s.transferActive = false
	s.countdown = 0
	s.line = s.line[:0]
}

func (s *LogSink) maybeStartTransfer() {
	if s.transferActive {
		return
	}
	// A transfer starts once the start bit (7) and internal-clock bit (0)
	// of SC are both set; external-clock transfers never complete here.
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	if b == 0 || b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
	} else {
		s.line = append(s.line, b)
	}

	if s.immediate {
		s.completeTransfer()
		return
	}

	s.transferActive = true
	s.countdown = 4096
}

func (s *LogSink) completeTransfer() {
	s.sb = s.defaultRX
	s.sc = bit.Reset(7, s.sc)
	s.transferActive = false
	if s.irqHandler != nil {
		s.irqHandler()
	}
}
