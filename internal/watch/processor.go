package watch

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/blumekt/pdfdeck/internal/profile"
	"github.com/blumekt/pdfdeck/internal/types"
)

// CommandRunner is an interface for running external commands.
// This allows for mocking in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner uses os/exec to run commands.
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// CommandProcessor applies profiles by invoking an external PDF engine
// binary. The engine receives the input, output, and the profile's actions
// as flags and owns all document manipulation.
type CommandProcessor struct {
	command string
	runner  CommandRunner
}

// NewCommandProcessor creates a processor that shells out to command.
func NewCommandProcessor(command string) *CommandProcessor {
	return &CommandProcessor{
		command: command,
		runner:  &DefaultCommandRunner{},
	}
}

// WithRunner overrides the command runner (for testing).
func (p *CommandProcessor) WithRunner(runner CommandRunner) *CommandProcessor {
	p.runner = runner
	return p
}

// Process runs the engine against one file.
func (p *CommandProcessor) Process(ctx context.Context, inputPath, outputPath string, prof *profile.Profile) error {
	args := []string{
		"process",
		"--input", inputPath,
		"--output", outputPath,
	}
	for _, action := range prof.Actions {
		args = append(args, "--action", action.String())
	}
	if prof.HasAction(types.ActionAddWatermark) && prof.WatermarkText != "" {
		args = append(args, "--watermark-text", prof.WatermarkText)
	}

	out, err := p.runner.Run(ctx, p.command, args...)
	if err != nil {
		return fmt.Errorf("engine failed for %s: %w\nOutput: %s", inputPath, err, out)
	}
	return nil
}
