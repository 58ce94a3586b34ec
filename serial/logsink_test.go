package serial

import (
	"testing"

	"github.com/nullterm/gbcore/addr"
	"github.com/stretchr/testify/assert"
)

func TestLogSinkImmediateTransferCompletesAndFiresIRQ(t *testing.T) {
	fired := false
	sink := NewLogSink(func() { fired = true })

	sink.Write(addr.SB, 'A')
	sink.Write(addr.SC, 0x81) // start + internal clock

	assert.True(t, fired, "irq handler should run on an immediate transfer")
	assert.Equal(t, uint8(0xFF), sink.Read(addr.SB), "SB should reset to the default RX byte")
	assert.False(t, sink.transferActive)
}

func TestLogSinkFixedTimingDelaysCompletion(t *testing.T) {
	fired := false
	sink := NewLogSink(func() { fired = true }, WithFixedTiming())

	sink.Write(addr.SB, 'A')
	sink.Write(addr.SC, 0x81)
	assert.False(t, fired, "transfer should not complete before the countdown elapses")

	sink.Tick(4096)
	assert.True(t, fired)
}

func TestLogSinkIgnoresExternalClockTransfers(t *testing.T) {
	fired := false
	sink := NewLogSink(func() { fired = true })

	sink.Write(addr.SB, 'A')
	sink.Write(addr.SC, 0x80) // start set, internal clock bit clear

	assert.False(t, fired)
}
