package ports

import "context"

// CommandRunner is the process-execution boundary. Commands run
// synchronously, one at a time; the captured standard output is returned
// and a non-zero exit raises an error carrying the captured stderr.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes argv in the given working directory. An empty dir runs
	// in the caller's working directory.
	Run(ctx context.Context, dir string, argv ...string) (string, error)
}
