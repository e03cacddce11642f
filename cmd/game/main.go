package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"

	"github.com/younwookim/timeloop/internal/application/game"
	"github.com/younwookim/timeloop/internal/application/replay"
	"github.com/younwookim/timeloop/internal/application/scene/playing"
	"github.com/younwookim/timeloop/internal/application/system"
	"github.com/younwookim/timeloop/internal/domain/entity"
	"github.com/younwookim/timeloop/internal/infrastructure/config"
	"github.com/younwookim/timeloop/internal/infrastructure/logging"
	"github.com/younwookim/timeloop/internal/infrastructure/render"
	"github.com/younwookim/timeloop/internal/infrastructure/sound"
	"github.com/younwookim/timeloop/internal/infrastructure/watch"
)

type flags struct {
	data   string
	record string
	replay string
	watch  bool
	dev    bool
	level  string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.data, "data", "", "Config directory (default: built-in configs)")
	flag.StringVar(&f.record, "record", "", "Record input to file (e.g., -record replay.json)")
	flag.StringVar(&f.replay, "replay", "", "Run a recording headless and print where it ends")
	flag.BoolVar(&f.watch, "watch", false, "Reload maps when files under -data change")
	flag.BoolVar(&f.dev, "dev", false, "Development logging; bad map data panics")
	flag.StringVar(&f.level, "log", "", "Log level (debug, info, warn, error)")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	log, err := logging.New(logging.Options{Development: f.dev, Level: f.level})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(finish(log, run(f, log)))
}

// finish logs a failed run, flushes the logger and returns the exit code.
func finish(log *zap.Logger, err error) int {
	code := 0
	if err != nil {
		log.Error("game failed", zap.Error(err))
		code = 1
	}
	_ = log.Sync()
	return code
}

// configSource returns the loader and the filesystem assets are read from.
func configSource(data string) (*config.Loader, fs.FS, error) {
	if data != "" {
		return config.NewLoader(data), os.DirFS(data), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config subfs: %w", err)
	}
	return config.NewFSLoader(fsys, "configs"), fsys, nil
}

func worldLoader(loader *config.Loader, log *zap.Logger) func() (*entity.WorldMap, error) {
	return func() (*entity.WorldMap, error) {
		wc, err := loader.LoadWorld()
		if err != nil {
			return nil, err
		}
		return system.LoadWorld(wc, log)
	}
}

func run(f flags, log *zap.Logger) error {
	loader, assets, err := configSource(f.data)
	if err != nil {
		return err
	}
	cfg, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	world, err := system.LoadWorld(cfg.World, log)
	if err != nil {
		return fmt.Errorf("failed to load world: %w", err)
	}

	if f.replay != "" {
		data, err := replay.LoadReplay(f.replay)
		if err != nil {
			return err
		}
		result, err := runReplay(data, cfg, world, log)
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	}

	opts := playing.Options{
		Session: playing.SessionOptions{
			Log:    log,
			Sounds: sound.NewPlayer(audio.NewContext(sound.DefaultSampleRate), assets, log),
			Layers: render.NewLayerCache(log),
		},
		Record:     f.record != "",
		RecordPath: f.record,
	}

	if f.watch {
		if f.data == "" {
			return fmt.Errorf("-watch needs -data")
		}
		w, err := watch.NewWatcher(log, f.data, filepath.Join(f.data, "maps"))
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", f.data, err)
		}
		defer func() { _ = w.Close() }()
		opts.Changed = w.Poll
		opts.LoadWorld = worldLoader(loader, log)
	}

	scene, err := playing.New(cfg, world, opts)
	if err != nil {
		return err
	}

	display := cfg.Physics.Display
	g := game.New(scene, display.ScreenWidth, display.ScreenHeight, log)
	if display.Framerate > 0 {
		g.SetDT(1.0 / float64(display.Framerate))
	}
	defer g.Close()

	// Set up ebiten
	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Timeloop")
	ebiten.SetTPS(display.Framerate)

	// Run game
	return ebiten.RunGame(g)
}
