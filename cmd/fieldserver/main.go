package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/arenafield/internal/command"
	"github.com/udisondev/arenafield/internal/config"
	"github.com/udisondev/arenafield/internal/db"
	"github.com/udisondev/arenafield/internal/game/field"
	"github.com/udisondev/arenafield/internal/game/fieldclass"
	"github.com/udisondev/arenafield/internal/items"
	"github.com/udisondev/arenafield/internal/journal"
	"github.com/udisondev/arenafield/internal/mainloop"
	"github.com/udisondev/arenafield/internal/objects"
	"github.com/udisondev/arenafield/internal/transport/ws"
	"github.com/udisondev/arenafield/internal/world"
)

const ConfigPath = "config/fieldserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("ARENAFIELD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadFieldServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("arenafield starting", "log_level", cfg.LogLevel, "zones", len(cfg.Zones))

	// Property store
	dsn := cfg.Database.DSN()
	if cfg.Database.Driver == db.DriverSQLite {
		dsn = cfg.Database.SQLitePath
	}
	repo, err := db.Open(ctx, cfg.Database.Driver, dsn)
	if err != nil {
		return fmt.Errorf("opening property store: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			slog.Error("closing property store", "err", err)
		}
	}()
	slog.Info("property store ready", "driver", cfg.Database.Driver)

	w := world.New()
	tracker := objects.NewTracker()
	store := items.NewStore()
	w.AddListener(items.NewLoader(store, repo))

	loop := mainloop.NewLoop(mainloop.NewSystemClock())
	loop.SetResolution(cfg.TickResolution)

	var observer *ws.Observer
	if cfg.Observer.Enabled {
		observer = ws.NewObserver(tracker)
		tracker.AddSink(observer)
	}

	host := &zoneHost{store: store}
	var observers []field.LifecycleObserver
	if observer != nil {
		host.feed = observer
		observers = append(observers, &feedObserver{feed: observer})
	}

	if cfg.Journal.Enabled {
		j := journal.Open(cfg.Journal.Dir)
		defer func() {
			if err := j.Close(); err != nil {
				slog.Error("closing journal", "err", err)
			}
			if n := j.Dropped(); n > 0 {
				slog.Warn("journal dropped events", "count", n)
			}
		}()
		observers = append(observers, newJournalObserver(j))
		slog.Info("journal enabled", "dir", cfg.Journal.Dir)
	}

	engine, err := field.NewEngine(field.Services{
		Players:   w,
		Actors:    w,
		Markers:   tracker,
		Props:     store,
		Events:    store,
		Scheduler: loop,
		Observers: observers,
	})
	if err != nil {
		return fmt.Errorf("creating field engine: %w", err)
	}
	w.AddListener(engine)
	defer func() {
		engine.Shutdown()
		for _, name := range engine.Classes() {
			if err := engine.UnregisterClass(name); err != nil {
				slog.Warn("unregister field class", "class", name, "err", err)
			}
		}
		slog.Info("field engine stopped")
	}()

	// Stock field classes
	override := fieldclass.NewOverride(host)
	w.AddListener(override)
	store.AddAdviser(override)
	if err := fieldclass.Register(engine,
		fieldclass.NewAttack(host),
		override,
		fieldclass.NewPrize(host),
	); err != nil {
		return fmt.Errorf("registering field classes: %w", err)
	}

	if err := attachZones(w, engine, cfg, filepath.Dir(cfgPath)); err != nil {
		return err
	}

	commands := command.NewHandler(host)
	commands.Register(
		field.NewCommand(engine, host, repo),
		command.NewShip(w),
		command.NewMove(),
	)
	slog.Info("commands registered", "names", commands.Names())

	if observer != nil && cfg.Observer.Players {
		observer.SetSessions(newPlayerSessions(w, commands))
		slog.Info("player connections enabled", "addr", cfg.Observer.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := loop.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("main loop: %w", err)
		}
		return nil
	})

	if observer != nil {
		g.Go(func() error {
			return observer.Serve(gctx, cfg.Observer.Addr())
		})
	}

	slog.Info("arenafield ready",
		"zones", engine.Zones(),
		"classes", engine.Classes())

	return g.Wait()
}

// attachZones creates every configured zone in the world and attaches it to
// the engine. Relative zone config paths resolve against baseDir.
func attachZones(w *world.World, engine *field.Engine, cfg config.FieldServer, baseDir string) error {
	for _, z := range cfg.Zones {
		path := z.Config
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		var zc *config.ZoneConfig
		if path == "" {
			zc = config.NewZoneConfig(nil)
		} else {
			var err error
			zc, err = config.LoadZoneConfig(path)
			if err != nil {
				return fmt.Errorf("loading zone %q config: %w", z.Name, err)
			}
		}

		if err := w.CreateZone(z.Name); err != nil {
			return fmt.Errorf("creating zone: %w", err)
		}
		if err := engine.AttachZone(z.Name, zc); err != nil {
			return fmt.Errorf("attaching zone: %w", err)
		}
		slog.Info("zone attached", "zone", z.Name, "types", len(engine.Types(z.Name)))
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
