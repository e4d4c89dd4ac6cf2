package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haukened/dnsctl/internal/dns/common/clock"
	"github.com/haukened/dnsctl/internal/dns/common/log"
	"github.com/haukened/dnsctl/internal/dns/config"
	"github.com/haukened/dnsctl/internal/dns/gateways/netconf"
	"github.com/haukened/dnsctl/internal/dns/gateways/netquery"
	"github.com/haukened/dnsctl/internal/dns/repos/profilestore"
	"github.com/haukened/dnsctl/internal/dns/services/applier"
	"github.com/haukened/dnsctl/internal/dns/services/orchestrator"
)

// app wires the configured component stack for one command invocation.
type app struct {
	cfg *config.AppConfig
	orc *orchestrator.Orchestrator
}

// newApp loads configuration, configures logging, and builds the
// orchestrator with the production registry and apply engine.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("logging configuration error: %w", err)
	}

	path := cfg.ConfigPath
	if path == "" {
		path, err = profilestore.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	logger := log.GetLogger()
	registry := netquery.New(cfg.Shell, logger)
	engine := applier.New(applier.Options{
		Configurator: netconf.NewWindows(cfg.Shell, logger),
		StateReader:  registry,
		Clock:        clock.RealClock{},
		Logger:       logger,
		StepTimeout:  time.Duration(cfg.StepTimeoutSeconds) * time.Second,
	})

	orc := orchestrator.New(orchestrator.Options{
		Registry:   registry,
		Applier:    engine,
		Logger:     logger,
		ConfigPath: path,
	})
	return &app{cfg: cfg, orc: orc}, nil
}

// startup builds the app, runs orchestrator startup, and honors the
// persistent --interface flag. Startup warnings are surfaced on the
// returned snapshot, not swallowed.
func startup(cmd *cobra.Command) (*app, orchestrator.Snapshot, error) {
	a, err := newApp()
	if err != nil {
		return nil, orchestrator.Snapshot{}, err
	}

	ctx := cmd.Context()
	snap, err := a.orc.Startup(ctx)
	if err != nil {
		return nil, snap, err
	}

	if want, _ := cmd.Flags().GetString("interface"); want != "" {
		id, err := resolveInterface(snap, want)
		if err != nil {
			return nil, snap, err
		}
		snap, err = a.orc.SelectInterface(ctx, id)
		if err != nil {
			return nil, snap, err
		}
	}
	return a, snap, nil
}

// resolveInterface matches the flag value against interface IDs and
// names from the enumeration snapshot.
func resolveInterface(snap orchestrator.Snapshot, want string) (string, error) {
	for _, ifc := range snap.Interfaces {
		if ifc.ID == want || ifc.Name == want {
			return ifc.ID, nil
		}
	}
	return "", fmt.Errorf("no active interface matches %q", want)
}
