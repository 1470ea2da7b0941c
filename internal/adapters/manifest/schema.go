package manifest

import (
	"go.trai.ch/zerr"
)

// document is the TOML shape of lockstep.toml.
type document struct {
	Package         packageDTO                `toml:"package"`
	Dependencies    map[string]dependencySpec `toml:"dependencies"`
	DevDependencies map[string]dependencySpec `toml:"dev-dependencies"`
	Features        map[string][]string       `toml:"features"`
}

// packageDTO is the project metadata table.
type packageDTO struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// dependencySpec accepts either a bare constraint string
// (requests = "^2.19") or an inline table
// (pendulum = { git = "...", rev = "1.4" }).
type dependencySpec struct {
	Constraint  string
	Git         string
	Ref         string
	Optional    bool
	Python      []string
	Prereleases bool
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *dependencySpec) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		s.Constraint = v
		return nil
	case map[string]any:
		return s.fromTable(v)
	default:
		return zerr.New("dependency must be a constraint string or a table")
	}
}

func (s *dependencySpec) fromTable(table map[string]any) error {
	for key, value := range table {
		switch key {
		case "version":
			s.Constraint, _ = value.(string)
		case "git":
			s.Git, _ = value.(string)
		case "rev", "branch", "tag":
			s.Ref, _ = value.(string)
		case "optional":
			s.Optional, _ = value.(bool)
		case "prereleases":
			s.Prereleases, _ = value.(bool)
		case "python":
			switch p := value.(type) {
			case string:
				s.Python = []string{p}
			case []any:
				for _, expr := range p {
					if str, ok := expr.(string); ok {
						s.Python = append(s.Python, str)
					}
				}
			}
		default:
			return zerr.With(zerr.New("unknown dependency key"), "key", key)
		}
	}

	if s.Git == "" && s.Constraint == "" {
		return zerr.New("dependency table needs a version or a git source")
	}
	return nil
}
