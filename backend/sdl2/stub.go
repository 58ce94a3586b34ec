//go:build !sdl2

package sdl2

import (
	"fmt"

	"github.com/nullterm/gbcore"
)

// Backend is a stub used when the sdl2 build tag is absent (e.g. CI
// environments without SDL2 development headers installed), matching the
// teacher's own default-build-skips-sdl2 convention.
type Backend struct{}

// New always fails on a stub build; compile with -tags sdl2 to get the
// real windowed backend.
func New(core *gbcore.Core) (*Backend, error) {
	return nil, fmt.Errorf("sdl2: backend not available - build with -tags sdl2 and install SDL2 development libraries")
}

// Run never runs on a stub build.
func (b *Backend) Run() error {
	return fmt.Errorf("sdl2: backend not available")
}
