// Package integration runs a broader sweep of public Game Boy test ROMs
// (Blargg's cpu_instrs/instr_timing/mem_timing suites plus dmg-acid2)
// against the core. Like the blargg package, every case is skipped rather
// than failed when its ROM file isn't present on disk.
package integration

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nullterm/gbcore"
)

type integrationTestCase struct {
	Name      string
	ROMPath   string
	MaxFrames int
}

func integrationTests() []integrationTestCase {
	cpuInstrs := "../../test-roms/game-boy-test-roms/blargg/cpu_instrs/individual"

	tests := []integrationTestCase{
		{Name: "01-special", ROMPath: filepath.Join(cpuInstrs, "01-special.gb"), MaxFrames: 500},
		{Name: "02-interrupts", ROMPath: filepath.Join(cpuInstrs, "02-interrupts.gb"), MaxFrames: 500},
		{Name: "03-op sp,hl", ROMPath: filepath.Join(cpuInstrs, "03-op sp,hl.gb"), MaxFrames: 500},
		{Name: "04-op r,imm", ROMPath: filepath.Join(cpuInstrs, "04-op r,imm.gb"), MaxFrames: 500},
		{Name: "05-op rp", ROMPath: filepath.Join(cpuInstrs, "05-op rp.gb"), MaxFrames: 500},
		{Name: "06-ld r,r", ROMPath: filepath.Join(cpuInstrs, "06-ld r,r.gb"), MaxFrames: 500},
		{Name: "07-jr,jp,call,ret,rst", ROMPath: filepath.Join(cpuInstrs, "07-jr,jp,call,ret,rst.gb"), MaxFrames: 500},
		{Name: "08-misc instrs", ROMPath: filepath.Join(cpuInstrs, "08-misc instrs.gb"), MaxFrames: 500},
		{Name: "09-op r,r", ROMPath: filepath.Join(cpuInstrs, "09-op r,r.gb"), MaxFrames: 1000},
		{Name: "10-bit ops", ROMPath: filepath.Join(cpuInstrs, "10-bit ops.gb"), MaxFrames: 1000},
		{Name: "11-op a,(hl)", ROMPath: filepath.Join(cpuInstrs, "11-op a,(hl).gb"), MaxFrames: 1500},
		{
			Name:      "dmg-acid2",
			ROMPath:   "../../test-roms/game-boy-test-roms/dmg-acid2/dmg-acid2.gb",
			MaxFrames: 10,
		},
		{
			Name:      "instr_timing",
			ROMPath:   "../../test-roms/game-boy-test-roms/blargg/instr_timing/instr_timing.gb",
			MaxFrames: 1200,
		},
		{
			Name:      "mem_timing_01-read",
			ROMPath:   "../../test-roms/game-boy-test-roms/blargg/mem_timing/individual/01-read_timing.gb",
			MaxFrames: 60,
		},
		{
			Name:      "mem_timing_02-write",
			ROMPath:   "../../test-roms/game-boy-test-roms/blargg/mem_timing/individual/02-write_timing.gb",
			MaxFrames: 60,
		},
		{
			Name:      "mem_timing_03-modify",
			ROMPath:   "../../test-roms/game-boy-test-roms/blargg/mem_timing/individual/03-modify_timing.gb",
			MaxFrames: 60,
		},
	}

	return tests
}

func runUntilStable(core *gbcore.Core, maxFrames int) []byte {
	const stableRun = 30

	var lastHash [md5.Size]byte
	streak := 0
	var grayscale []byte

	for i := 0; i < maxFrames; i++ {
		fb := core.RunFrame()
		grayscale = fb.ToGrayscale()
		hash := md5.Sum(grayscale)
		if hash == lastHash {
			streak++
			if streak >= stableRun {
				break
			}
		} else {
			streak = 0
			lastHash = hash
		}
	}

	return grayscale
}

func runIntegrationTest(t *testing.T, tc integrationTestCase) {
	if _, err := os.Stat(tc.ROMPath); os.IsNotExist(err) {
		t.Skipf("test ROM not found: %s (run the test ROM downloader first)", tc.ROMPath)
	}

	rom, err := os.ReadFile(tc.ROMPath)
	if err != nil {
		t.Fatalf("failed to read ROM: %v", err)
	}

	core, err := gbcore.New(rom, nil)
	if err != nil {
		t.Fatalf("failed to construct core: %v", err)
	}

	grayscale := runUntilStable(core, tc.MaxFrames)

	if err := os.MkdirAll("testdata", 0o755); err != nil {
		t.Fatalf("failed to create testdata directory: %v", err)
	}

	hash := fmt.Sprintf("%x", md5.Sum(grayscale))
	screenDataPath := filepath.Join("testdata", tc.Name+".bin")

	if os.Getenv("BLARGG_GENERATE_GOLDEN") == "true" {
		if err := os.WriteFile(screenDataPath, grayscale, 0o644); err != nil {
			t.Fatalf("failed to write golden data: %v", err)
		}
		t.Logf("generated golden data for %s (hash %s)", tc.Name, hash)
		return
	}

	expectedData, err := os.ReadFile(screenDataPath)
	if err != nil {
		t.Skipf("no golden data at %s (set BLARGG_GENERATE_GOLDEN=true to create it): %v", screenDataPath, err)
	}

	expectedHash := fmt.Sprintf("%x", md5.Sum(expectedData))
	if hash != expectedHash {
		actualPath := filepath.Join("testdata", tc.Name+"_actual.bin")
		_ = os.WriteFile(actualPath, grayscale, 0o644)
		t.Errorf("screen output differs from golden\n  expected hash: %s\n  actual hash:   %s\n  saved actual:  %s",
			expectedHash, hash, actualPath)
	}
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}

	for _, tc := range integrationTests() {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			runIntegrationTest(t, tc)
		})
	}
}
