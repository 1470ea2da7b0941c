// Package pip adapts the external pip tooling: the resolver helper and the
// package installer.
package pip

import (
	"context"
	"encoding/json"
	"sync"

	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// hashFetchLimit bounds the concurrent hash lookups for the pinned
// partition. The core stays single-threaded; this parallelism never leaves
// the resolution boundary.
const hashFetchLimit = 8

// Resolver implements ports.Resolver by shelling out to the resolver
// helper, which wraps the actual constraint solver and reports matches,
// reverse dependencies and content hashes as JSON.
type Resolver struct {
	runner ports.CommandRunner

	// helper is the argv prefix of the resolver helper.
	helper []string
}

// NewResolver creates a Resolver using the default helper
// (python -m lockstep_resolver).
func NewResolver(runner ports.CommandRunner) *Resolver {
	return &Resolver{
		runner: runner,
		helper: []string{"python", "-m", "lockstep_resolver"},
	}
}

// Resolve invokes the helper with the declared requirements and decodes
// its report. Hashes are then fetched for the pinned partition only.
// Helper failures (unsatisfiable constraints, network) propagate
// unchanged; resolution is idempotent and safe to simply re-run.
func (r *Resolver) Resolve(
	ctx context.Context,
	deps []domain.Dependency,
	prereleases bool,
) (*domain.Resolution, error) {
	argv := append([]string{}, r.helper...)
	argv = append(argv, "resolve", "--json")
	if prereleases {
		argv = append(argv, "--pre")
	}
	for _, dep := range deps {
		argv = append(argv, dep.Requirement())
	}

	out, err := r.runner.Run(ctx, "", argv...)
	if err != nil {
		return nil, zerr.Wrap(err, "dependency resolution failed")
	}

	var report resolveReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		return nil, zerr.Wrap(err, "failed to parse resolver report")
	}

	resolution := &domain.Resolution{
		Matches:     make([]domain.Match, 0, len(report.Matches)),
		ReverseDeps: make(map[domain.InternedString]domain.ParentSet, len(report.ReverseDependencies)),
		Hashes:      make(map[domain.InternedString][]string),
	}
	for _, dto := range report.Matches {
		resolution.Matches = append(resolution.Matches, domain.Match{
			Name:      domain.CanonicalName(dto.Name),
			Specifier: dto.Specifier,
			Link:      dto.Link,
			Editable:  dto.Editable,
		})
	}
	for child, parents := range report.ReverseDependencies {
		set := make(domain.ParentSet, len(parents))
		for _, parent := range parents {
			set[domain.CanonicalName(parent)] = struct{}{}
		}
		resolution.ReverseDeps[domain.CanonicalName(child)] = set
	}

	if err := r.fetchHashes(ctx, resolution); err != nil {
		return nil, err
	}
	return resolution, nil
}

// fetchHashes retrieves the content hashes for every pinned match, a few
// at a time.
func (r *Resolver) fetchHashes(ctx context.Context, resolution *domain.Resolution) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(hashFetchLimit)

	var mu sync.Mutex
	for _, match := range resolution.Matches {
		if !match.Pinned() {
			continue
		}
		g.Go(func() error {
			argv := append([]string{}, r.helper...)
			argv = append(argv, "hashes", "--json", match.Name.String()+match.Specifier)

			out, err := r.runner.Run(ctx, "", argv...)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "hash lookup failed"), "package", match.Name.String())
			}

			var report hashReport
			if err := json.Unmarshal([]byte(out), &report); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to parse hash report"), "package", match.Name.String())
			}

			mu.Lock()
			resolution.Hashes[match.Name] = report.Hashes
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}
