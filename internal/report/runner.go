package report

import (
	"context"
	"os/exec"
)

// CommandRunner executes one external diagnostic command and captures its
// stdout in full. Implementations are synchronous and non-interactive.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs real processes via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}
