package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// CLI queries the store through the nix command line tools.
type CLI struct {
	Logger *slog.Logger
}

// NewCLI creates a store client backed by the nix binaries on PATH.
func NewCLI(logger *slog.Logger) *CLI {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLI{Logger: logger}
}

// IsInstalled checks for the nix-store binary.
func (c *CLI) IsInstalled() bool {
	_, err := exec.LookPath("nix-store")
	return err == nil
}

func (c *CLI) run(ctx context.Context, args ...string) ([]byte, error) {
	c.Logger.Debug("running store query", "cmd", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	output, err := cmd.Output()
	if err != nil {
		toolErr := &ToolError{Args: args, Err: err}
		if exitErr, ok := err.(*exec.ExitError); ok {
			toolErr.Stderr = string(exitErr.Stderr)
		}
		c.Logger.Debug("store query failed",
			"cmd", strings.Join(args, " "),
			"stderr", strings.TrimSpace(toolErr.Stderr))
		return nil, toolErr
	}
	return output, nil
}

// QueryHash implements Store. A non-zero exit means the path is not in
// the store; the returned *ToolError wraps ErrNotFound so callers can
// downgrade it where a missing path is expected.
func (c *CLI) QueryHash(ctx context.Context, path string) (string, error) {
	output, err := c.run(ctx, "nix-store", "--query", "--hash", path)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			toolErr.Err = fmt.Errorf("%w: %w", ErrNotFound, toolErr.Err)
		}
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// QueryReferences implements Store.
func (c *CLI) QueryReferences(ctx context.Context, path string, recursive bool) ([]string, error) {
	depth := "--references"
	if recursive {
		depth = "--requisites"
	}
	output, err := c.run(ctx, "nix-store", "--query", depth, path)
	if err != nil {
		return nil, err
	}
	return strings.Fields(string(output)), nil
}

// Derivation implements Store.
func (c *CLI) Derivation(ctx context.Context, ref string) (map[string]Derivation, error) {
	output, err := c.run(ctx, "nix", "derivation", "show", ref)
	if err != nil {
		return nil, err
	}
	drvs := map[string]Derivation{}
	if err := json.Unmarshal(output, &drvs); err != nil {
		return nil, fmt.Errorf("parse derivation metadata for %s: %w", ref, err)
	}
	return drvs, nil
}
