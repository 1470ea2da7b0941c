package lockfile

import "go.trai.ch/lockstep/internal/core/domain"

// lockDocument is the TOML shape of lockstep.lock.
type lockDocument struct {
	Packages []packageDTO        `toml:"package"`
	Features map[string][]string `toml:"features,omitempty"`
}

// packageDTO is one [[package]] entry.
type packageDTO struct {
	Name     string          `toml:"name"`
	Version  string          `toml:"version"`
	Category domain.Category `toml:"category"`
	Optional bool            `toml:"optional"`
	Python   []string        `toml:"python"`
	Hashes   []string        `toml:"hashes"`
	Source   *sourceDTO      `toml:"source,omitempty"`
}

// sourceDTO is the repository source table for VCS-sourced packages.
type sourceDTO struct {
	Kind string `toml:"kind"`
	URL  string `toml:"url"`
	Ref  string `toml:"ref"`
}
