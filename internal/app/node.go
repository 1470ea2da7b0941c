package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockstep/internal/adapters/lockfile"
	"go.trai.ch/lockstep/internal/adapters/logger"
	"go.trai.ch/lockstep/internal/adapters/manifest"
	"go.trai.ch/lockstep/internal/adapters/pip"
	"go.trai.ch/lockstep/internal/adapters/telemetry/progrock"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/lockstep/internal/engine/attribution"
)

const NodeID graft.ID = "app"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			pip.ResolverNodeID,
			attribution.NodeID,
			lockfile.NodeID,
			pip.ManagerNodeID,
			logger.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			manifests, err := graft.Dep[ports.ManifestLoader](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.Resolver](ctx)
			if err != nil {
				return nil, err
			}
			engine, err := graft.Dep[*attribution.Engine](ctx)
			if err != nil {
				return nil, err
			}
			lock, err := graft.Dep[ports.LockStore](ctx)
			if err != nil {
				return nil, err
			}
			packages, err := graft.Dep[ports.PackageManager](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return New(manifests, resolver, engine, lock, packages, log, telemetry), nil
		},
	})
}
