// Command jeebie is the headless/terminal front-end for the gbcore
// emulation core: it owns ROM loading, SRAM persistence, log level
// configuration and the choice between interactive and headless modes,
// none of which the core itself knows or cares about.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/nullterm/gbcore"
	"github.com/nullterm/gbcore/backend/terminal"
)

func main() {
	app := cli.NewApp()
	app.Name = "jeebie"
	app.Description = "A DMG Game Boy emulator"
	app.Usage = "jeebie [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "sram",
			Usage: "Path to a battery-backed RAM save file (loaded at start, flushed at exit)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "info",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("jeebie exited with an error", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	if err := configureLogging(c.String("log-level")); err != nil {
		return err
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	romBytes, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM %q: %w", romPath, err)
	}

	sramPath := c.String("sram")
	sramBytes, err := loadSRAM(sramPath)
	if err != nil {
		return err
	}

	core, err := gbcore.New(romBytes, sramBytes)
	if err != nil {
		return fmt.Errorf("loading cartridge %q: %w", romPath, err)
	}

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames with a positive value")
		}
		return runHeadless(core, frames, sramPath)
	}

	return runInteractive(core, sramPath)
}

func runHeadless(core *gbcore.Core, frames int, sramPath string) error {
	slog.Info("running headless", "frames", frames)

	for i := 0; i < frames; i++ {
		core.RunFrame()
		if (i+1)%60 == 0 {
			slog.Debug("headless progress", "completed", i+1, "total", frames)
		}
	}

	slog.Info("headless run completed", "frames", frames)
	return flushSRAM(core, sramPath)
}

func runInteractive(core *gbcore.Core, sramPath string) error {
	backend, err := terminal.New(core)
	if err != nil {
		return fmt.Errorf("initializing terminal backend: %w", err)
	}

	if err := backend.Run(); err != nil {
		return err
	}

	return flushSRAM(core, sramPath)
}

func loadSRAM(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no existing SRAM file, starting with fresh battery-backed RAM", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading SRAM file %q: %w", path, err)
	}
	return data, nil
}

func flushSRAM(core *gbcore.Core, path string) error {
	if path == "" {
		return nil
	}
	snapshot := core.SRAMSnapshot()
	if snapshot == nil {
		return nil
	}
	if err := os.WriteFile(path, snapshot, 0o644); err != nil {
		return fmt.Errorf("writing SRAM file %q: %w", path, err)
	}
	slog.Info("flushed battery-backed RAM", "path", path, "bytes", len(snapshot))
	return nil
}

func configureLogging(level string) error {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(handler))
	return nil
}
