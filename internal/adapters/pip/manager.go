package pip

import (
	"context"
	"regexp"
	"strings"

	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

// editableLine matches the tail of a "-e" line in the installed-package
// listing: ...@<revision>#egg=<name>.
var editableLine = regexp.MustCompile(`@(?P<revision>[^@]+)#egg=(?P<name>.+)$`)

// Manager implements ports.PackageManager over the pip CLI.
type Manager struct {
	runner ports.CommandRunner
}

// NewManager creates a new Manager.
func NewManager(runner ports.CommandRunner) *Manager {
	return &Manager{runner: runner}
}

// Install installs one package: released packages by exact pin,
// repository-sourced packages by pinned source link.
func (m *Manager) Install(ctx context.Context, pkg domain.ResolvedPackage, upgrade bool) error {
	argv := []string{"pip", "install", requirement(pkg)}
	if upgrade {
		argv = append(argv, "-U")
	}

	if _, err := m.runner.Run(ctx, "", argv...); err != nil {
		return zerr.With(zerr.Wrap(err, "error while installing"), "package", pkg.Name.String())
	}
	return nil
}

// Remove uninstalls one package.
func (m *Manager) Remove(ctx context.Context, pkg domain.ResolvedPackage) error {
	if _, err := m.runner.Run(ctx, "", "pip", "uninstall", pkg.Name.String(), "-y"); err != nil {
		return zerr.With(zerr.Wrap(err, "error while removing"), "package", pkg.Name.String())
	}
	return nil
}

// Installed lists installed packages from "pip freeze". Regular lines are
// "name==version"; editable lines are "-e <url>@<revision>#egg=<name>".
// Malformed editable lines are skipped so the package counts as not
// installed and gets a clean install rather than being silently missed.
func (m *Manager) Installed(ctx context.Context) (map[domain.InternedString]string, error) {
	out, err := m.runner.Run(ctx, "", "pip", "freeze")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list installed packages")
	}

	installed := make(map[domain.InternedString]string)
	for line := range strings.Lines(out) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := strings.CutPrefix(line, "-e "); ok {
			match := editableLine.FindStringSubmatch(rest)
			if match == nil {
				continue
			}
			name := match[editableLine.SubexpIndex("name")]
			revision := match[editableLine.SubexpIndex("revision")]
			installed[domain.CanonicalName(name)] = revision
			continue
		}

		name, version, ok := strings.Cut(line, "==")
		if !ok {
			continue
		}
		installed[domain.CanonicalName(name)] = version
	}

	return installed, nil
}

// InterpreterVersion reports the environment's interpreter as major.minor.
func (m *Manager) InterpreterVersion(ctx context.Context) (string, error) {
	out, err := m.runner.Run(ctx, "", "python", "-c",
		`import sys; print("%d.%d" % sys.version_info[:2])`)
	if err != nil {
		return "", zerr.Wrap(err, "failed to read interpreter version")
	}
	return strings.TrimSpace(out), nil
}

// requirement renders the install argument for a package.
func requirement(pkg domain.ResolvedPackage) string {
	if pkg.Source != nil {
		return pkg.Source.URL + "@" + pkg.Source.Ref + "#egg=" + pkg.Name.String()
	}
	return pkg.Name.String() + "==" + pkg.Version
}
