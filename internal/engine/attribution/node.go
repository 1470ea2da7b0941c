package attribution

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockstep/internal/adapters/git"
	"go.trai.ch/lockstep/internal/core/ports"
)

const NodeID graft.ID = "engine.attribution"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{git.NodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			revisions, err := graft.Dep[ports.RevisionResolver](ctx)
			if err != nil {
				return nil, err
			}
			return New(revisions), nil
		},
	})
}
