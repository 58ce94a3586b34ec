package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpritePriorityBufferClear(t *testing.T) {
	buffer := &SpritePriorityBuffer{}

	buffer.ownerIndex[0] = 5
	buffer.ownerX[0] = 10
	buffer.ownerIndex[50] = 3
	buffer.ownerX[50] = 20

	buffer.Clear()

	for i := 0; i < FramebufferWidth; i++ {
		assert.Equal(t, -1, buffer.ownerIndex[i], "pixel %d should have no owner", i)
		assert.Equal(t, 0xFF, buffer.ownerX[i], "pixel %d should have max X value", i)
	}
}

func TestSpritePriorityBufferTryClaimPixel(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(*SpritePriorityBuffer)
		pixelX        int
		spriteIndex   int
		spriteX       int
		expectedClaim bool
		expectedOwner int
	}{
		{
			name:          "claim unowned pixel",
			setup:         func(b *SpritePriorityBuffer) { b.Clear() },
			pixelX:        50,
			spriteIndex:   2,
			spriteX:       20,
			expectedClaim: true,
			expectedOwner: 2,
		},
		{
			name: "lower X coordinate wins",
			setup: func(b *SpritePriorityBuffer) {
				b.Clear()
				b.ownerIndex[50] = 3
				b.ownerX[50] = 30
			},
			pixelX:        50,
			spriteIndex:   2,
			spriteX:       20,
			expectedClaim: true,
			expectedOwner: 2,
		},
		{
			name: "higher X coordinate loses",
			setup: func(b *SpritePriorityBuffer) {
				b.Clear()
				b.ownerIndex[50] = 3
				b.ownerX[50] = 10
			},
			pixelX:        50,
			spriteIndex:   2,
			spriteX:       20,
			expectedClaim: false,
			expectedOwner: 3,
		},
		{
			name: "same X, lower OAM index wins",
			setup: func(b *SpritePriorityBuffer) {
				b.Clear()
				b.ownerIndex[50] = 5
				b.ownerX[50] = 20
			},
			pixelX:        50,
			spriteIndex:   3,
			spriteX:       20,
			expectedClaim: true,
			expectedOwner: 3,
		},
		{
			name: "same X, higher OAM index loses",
			setup: func(b *SpritePriorityBuffer) {
				b.Clear()
				b.ownerIndex[50] = 3
				b.ownerX[50] = 20
			},
			pixelX:        50,
			spriteIndex:   5,
			spriteX:       20,
			expectedClaim: false,
			expectedOwner: 3,
		},
		{
			name:          "out of bounds negative X",
			setup:         func(b *SpritePriorityBuffer) { b.Clear() },
			pixelX:        -1,
			spriteIndex:   2,
			spriteX:       20,
			expectedClaim: false,
			expectedOwner: -1,
		},
		{
			name:          "out of bounds X >= width",
			setup:         func(b *SpritePriorityBuffer) { b.Clear() },
			pixelX:        FramebufferWidth,
			spriteIndex:   2,
			spriteX:       20,
			expectedClaim: false,
			expectedOwner: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buffer := &SpritePriorityBuffer{}
			tt.setup(buffer)

			claimed := buffer.TryClaimPixel(tt.pixelX, tt.spriteIndex, tt.spriteX)
			assert.Equal(t, tt.expectedClaim, claimed)
			assert.Equal(t, tt.expectedOwner, buffer.GetOwner(tt.pixelX))
		})
	}
}

// Sprite 0 at X=5, sprite 1 at X=10: sprite 0 wins the overlap by lower X.
func TestSpritePriorityBufferLowerXWinsAcrossSprites(t *testing.T) {
	buffer := &SpritePriorityBuffer{}
	buffer.Clear()

	for i := 0; i < 8; i++ {
		buffer.TryClaimPixel(5+i, 0, 5)
	}
	for i := 0; i < 8; i++ {
		buffer.TryClaimPixel(10+i, 1, 10)
	}

	for i := 5; i <= 12; i++ {
		assert.Equal(t, 0, buffer.GetOwner(i), "pixel %d should be owned by sprite 0", i)
	}
	for i := 13; i <= 17; i++ {
		assert.Equal(t, 1, buffer.GetOwner(i), "pixel %d should be owned by sprite 1", i)
	}
}

// Sprites 1 and 3 share X=12; sprite 5 at X=10 wins the shared region, and
// sprite 1 wins its leftover pixels against sprite 3 by lower OAM index.
func TestSpritePriorityBufferTiebreakOnOAMIndex(t *testing.T) {
	buffer := &SpritePriorityBuffer{}
	buffer.Clear()

	for i := 0; i < 8; i++ {
		buffer.TryClaimPixel(12+i, 1, 12)
	}
	for i := 0; i < 8; i++ {
		buffer.TryClaimPixel(12+i, 3, 12)
	}
	for i := 0; i < 8; i++ {
		buffer.TryClaimPixel(10+i, 5, 10)
	}

	for i := 10; i <= 17; i++ {
		assert.Equal(t, 5, buffer.GetOwner(i), "pixel %d should be owned by sprite 5", i)
	}
	for i := 18; i <= 19; i++ {
		assert.Equal(t, 1, buffer.GetOwner(i), "pixel %d should be owned by sprite 1", i)
	}
}
