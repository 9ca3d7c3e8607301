package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"grimm.is/netdevd/internal/api"
	"grimm.is/netdevd/internal/config"
	"grimm.is/netdevd/internal/device"
	"grimm.is/netdevd/internal/events"
	"grimm.is/netdevd/internal/logging"
	"grimm.is/netdevd/internal/metrics"
	"grimm.is/netdevd/internal/platform"
	"grimm.is/netdevd/internal/profile"
	"grimm.is/netdevd/internal/setting"
)

// RunDaemon runs the device daemon in the foreground until SIGINT or
// SIGTERM. SIGHUP re-imports the profile directory.
func RunDaemon(configFile string) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	log := logger.WithComponent("daemon")

	if dir := filepath.Dir(cfg.StateDB); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	store, err := profile.NewSQLiteStore(cfg.StateDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := importProfiles(store, cfg.ProfileDir, log); err != nil {
		return err
	}

	nl, err := platform.NewNetlinker(cfg.Netns)
	if err != nil {
		return err
	}
	defer nl.Close()

	var prober platform.CarrierProber
	if p, err := platform.NewEthtoolProber(); err != nil {
		log.Warn("ethtool unavailable, carrier detection disabled", "error", err)
	} else {
		defer p.Close()
		prober = p
	}

	cache := platform.NewCache(nl, prober)

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	hub := events.NewHub()
	m := metrics.Get()
	mgr := device.NewManager(device.ManagerOptions{
		Platform:  cache,
		Registry:  registry,
		Store:     store,
		Hub:       hub,
		Metrics:   m,
		Overrides: overridesFrom(cfg),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	if err := startMirror(ctx, cache, mgr, errCh); err != nil {
		return err
	}

	if !cfg.API.Disabled {
		srv := api.NewServer(api.ServerOptions{
			Devices: mgr,
			Store:   store,
			Hub:     hub,
			Metrics: m,
		})
		go func() {
			errCh <- srv.ListenAndServe(ctx, cfg.API.Listen)
		}()
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	log.Info("daemon started", "netns", cfg.Netns, "profiles", cfg.ProfileDir)
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case <-hup:
			conns, err := importProfiles(store, cfg.ProfileDir, log)
			if err != nil {
				log.Error("profile reload failed", "error", err)
				continue
			}
			for _, c := range conns {
				if _, err := mgr.ProfileChanged(c.Conn.UUID); err != nil {
					log.Warn("failed to re-check profile", "profile", c.String(), "error", err)
				}
			}
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}

// startMirror subscribes to kernel link updates, dumps the current links and
// starts the manager on the mirror's events. The manager then syncs from the
// mirror, so links whose events overflowed the channel still get devices.
func startMirror(ctx context.Context, cache *platform.Cache, mgr *device.Manager, errCh chan<- error) error {
	linkEvents := cache.Subscribe(256)
	if err := cache.Watch(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to link updates: %w", err)
	}
	if err := cache.Refresh(); err != nil {
		return err
	}
	go func() {
		errCh <- mgr.Run(ctx, linkEvents)
	}()
	mgr.Sync()
	return nil
}

// importProfiles loads every profile file in dir into the store. Invalid
// profiles are logged and skipped.
func importProfiles(store profile.Store, dir string, log *logging.Logger) ([]*setting.Connection, error) {
	conns, err := profile.LoadDir(dir)
	if err != nil {
		return nil, err
	}

	var imported []*setting.Connection
	for _, c := range conns {
		if err := c.Verify(); err != nil {
			log.Warn("skipping invalid profile", "profile", c.String(), "error", err)
			continue
		}
		if err := store.Save(c); err != nil {
			return imported, fmt.Errorf("failed to store profile %s: %w", c.Conn.ID, err)
		}
		imported = append(imported, c)
	}
	log.Info("profiles imported", "dir", dir, "count", len(imported))
	return imported, nil
}

func buildRegistry(cfg *config.Config) (*device.Registry, error) {
	registry := device.DefaultRegistry()
	for _, name := range cfg.DisabledKinds {
		if err := registry.Disable(name); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func overridesFrom(cfg *config.Config) map[string]device.Override {
	out := make(map[string]device.Override, len(cfg.Devices))
	for _, d := range cfg.Devices {
		out[d.Name] = device.Override{
			Managed:         d.Managed,
			GenerateProfile: d.GenerateProfile,
		}
	}
	return out
}
