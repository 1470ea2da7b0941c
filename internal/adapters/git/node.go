package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockstep/internal/adapters/shell"
	"go.trai.ch/lockstep/internal/core/ports"
)

const NodeID graft.ID = "adapter.revisions"

func init() {
	graft.Register(graft.Node[ports.RevisionResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.RevisionResolver, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(runner), nil
		},
	})
}
