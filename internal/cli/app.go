// Package cli implements the fma binary's cobra command tree (spec.md
// §2.4): resolve (run one menu-request and print the result), validate
// (load the repository once and report invalid items), and version.
package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/fma-project/fma-go/internal/config"
	"github.com/fma-project/fma-go/internal/evaluate"
	"github.com/fma-project/fma-go/internal/pipeline"
	"github.com/fma-project/fma-go/internal/provider"
	"github.com/fma-project/fma-go/internal/repository"
	"github.com/fma-project/fma-go/internal/selection"
)

// buildApp wires a loaded Config into a Repository and a Pipeline,
// mirroring the teacher's mount.go (config.Load -> fs.NewLinearFS ->
// fs.MountFS), but terminating at a Pipeline rather than a FUSE mount
// since this module serves menu requests, not a filesystem.
func buildApp(cfg *config.Config, logger *log.Logger) (*repository.Repository, *pipeline.Pipeline, error) {
	providers, err := buildProviders(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.New(providers, repository.Options{
		LevelZeroOrder: cfg.LevelZeroOrder,
		ListOrderMode:  cfg.ListOrderMode,
		LoadDisabled:   cfg.LoadDisabled,
		LoadInvalid:    cfg.LoadInvalid,
		BurstWindow:    cfg.BurstWindow,
		Logger:         logger,
	})
	if err := repo.Reload(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("initial repository load: %w", err)
	}

	prober := evaluate.NewSystemProber(10, 5)
	ev := evaluate.New(prober, cfg.ProbeTimeout)
	pl := pipeline.New(repo, ev, selection.NewAdapter(), pipeline.Config{
		CreateRootMenu: cfg.CreateRootMenu,
		AddAboutItem:   cfg.AddAboutItem,
	}, logger)

	return repo, pl, nil
}

func buildProviders(cfg *config.Config, logger *log.Logger) ([]provider.Provider, error) {
	providers := make([]provider.Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		if !pc.Enabled {
			continue
		}
		switch pc.Kind {
		case "yaml":
			providers = append(providers, provider.NewYAMLProvider(pc.ID, pc.ID, pc.Path, pc.Writable, logger))
		case "sqlite":
			sp, err := provider.OpenSQLiteProvider(pc.ID, pc.ID, pc.Path, pc.Writable, logger)
			if err != nil {
				return nil, fmt.Errorf("open sqlite provider %q: %w", pc.ID, err)
			}
			providers = append(providers, sp)
		case "mem":
			providers = append(providers, provider.NewMemoryProvider(pc.ID, pc.ID, pc.Writable))
		default:
			return nil, fmt.Errorf("unknown provider kind %q for provider %q", pc.Kind, pc.ID)
		}
	}
	return providers, nil
}
