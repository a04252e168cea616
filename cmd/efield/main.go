package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/efield/audio"
	"github.com/lixenwraith/efield/config"
	"github.com/lixenwraith/efield/logging"
	"github.com/lixenwraith/efield/render"
	"github.com/lixenwraith/efield/sim"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "efield: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.Flags("efield")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	path, _ := flags.GetString("config")

	cfg, err := config.Load(path, flags)
	if err != nil {
		return err
	}

	logFile, err := logging.Open(cfg.Log.Dir, cfg.Log.File, logging.DefaultMaxSize)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logging.New(logFile, cfg.Log.Level)

	s, err := sim.New(sim.OptionsFromConfig(cfg, log.With().Str("component", "sim").Logger()))
	if err != nil {
		return err
	}

	if cfg.Export.Path != "" {
		return exportOnce(s, cfg.Export.Path, log)
	}
	return runTUI(cfg, s, log)
}

// exportOnce is the headless mode: one frame straight to PDF
func exportOnce(s *sim.Simulation, path string, log zerolog.Logger) error {
	f := s.Frame()
	if err := render.ExportPDF(path, &f); err != nil {
		log.Error().Err(err).Str("path", path).Msg("export failed")
		return err
	}
	log.Info().Str("path", path).Int("charges", len(f.Charges)).Msg("exported")
	fmt.Println(path)
	return nil
}

func runTUI(cfg *config.Config, s *sim.Simulation, log zerolog.Logger) (err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "terminal")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "terminal init")
	}

	// Panic Recovery: restore the terminal before reporting
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			log.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("crashed")
			fmt.Fprintf(os.Stderr, "\n\x1b[31mEFIELD CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	audioCfg := audio.DefaultConfig()
	audioCfg.Enabled = cfg.Audio.Enabled
	audioCfg.Volume = cfg.Audio.Volume
	audioCfg.SampleRate = cfg.Audio.SampleRate
	player := audio.Open(audioCfg, log.With().Str("component", "audio").Logger())
	defer player.Close()

	app := NewApp(screen, s, player, cfg.View.Scale, log)
	_, isNop := player.(audio.Nop)
	app.audio = !isNop

	return app.Run(context.Background(), cfg.Tick)
}
