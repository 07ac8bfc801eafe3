package theme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/wallhue/wallhue/internal/colour"
)

// GamutCLIName is the executable name of the external palette tool.
const GamutCLIName = "gamut-cli"

var (
	// ErrTransformerFailed marks the external tool being unavailable or
	// exiting with an error.
	ErrTransformerFailed = errors.New("palette transformer failed")

	// ErrTransformerOutput marks tool output that cannot be parsed as a
	// colour sequence.
	ErrTransformerOutput = errors.New("palette transformer produced unparsable output")
)

// Transformer turns one or two representative colours plus a transformation
// request into the final ordered palette.
type Transformer interface {
	// Transform runs the transformation. The secondary colour is nil
	// unless the request consumes two colours.
	Transform(ctx context.Context, opts Options, primary colour.RGB, secondary *colour.RGB) ([]colour.RGB, error)
}

// ProcessRunner defines an interface for running external processes.
// This abstraction allows for dependency injection and easier testing.
type ProcessRunner interface {
	// Run executes a command with the given context, arguments, stdin, and returns stdout/stderr.
	Run(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)
}

// RealProcessRunner implements ProcessRunner using actual os/exec commands.
type RealProcessRunner struct{}

// NewRealProcessRunner creates a new real process runner.
func NewRealProcessRunner() *RealProcessRunner {
	return &RealProcessRunner{}
}

// Run executes a real external process.
func (r *RealProcessRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = stdin

	stdout, err := cmd.Output()
	if err != nil {
		// Output() returns stderr in the error if it's an ExitError
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			return stdout, exitErr.Stderr, err
		}
		return stdout, nil, err
	}

	return stdout, nil, nil
}

// GamutCLI invokes the gamut-cli executable to perform the colour-wheel
// mathematics. Arguments are the rendered option vector followed by one or
// two hex colours; stdout is expected to be whitespace-separated hex
// colours in palette order.
type GamutCLI struct {
	binary string
	runner ProcessRunner
	logger hclog.Logger
}

// GamutCLIOption configures a GamutCLI.
type GamutCLIOption func(*GamutCLI)

// WithBinary overrides the executable path.
func WithBinary(path string) GamutCLIOption {
	return func(g *GamutCLI) { g.binary = path }
}

// WithRunner overrides the process runner, mainly for tests.
func WithRunner(r ProcessRunner) GamutCLIOption {
	return func(g *GamutCLI) { g.runner = r }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) GamutCLIOption {
	return func(g *GamutCLI) { g.logger = l }
}

// NewGamutCLI creates a transformer backed by the gamut-cli executable.
func NewGamutCLI(opts ...GamutCLIOption) *GamutCLI {
	g := &GamutCLI{
		binary: GamutCLIName,
		runner: NewRealProcessRunner(),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Transform implements Transformer.
func (g *GamutCLI) Transform(ctx context.Context, opts Options, primary colour.RGB, secondary *colour.RGB) ([]colour.RGB, error) {
	args := opts.Args()
	args = append(args, primary.Hex())
	if secondary != nil {
		args = append(args, secondary.Hex())
	}

	g.logger.Debug("invoking transformer", "binary", g.binary, "args", args)

	stdout, stderr, err := g.runner.Run(ctx, g.binary, args, nil)
	if err != nil {
		if len(stderr) > 0 {
			return nil, fmt.Errorf("%w: %v: %s", ErrTransformerFailed, err, strings.TrimSpace(string(stderr)))
		}
		return nil, fmt.Errorf("%w: %v", ErrTransformerFailed, err)
	}

	return parsePalette(string(stdout))
}

// parsePalette parses whitespace-separated hex colours in palette order.
func parsePalette(out string) ([]colour.RGB, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrTransformerOutput)
	}

	colours := make([]colour.RGB, 0, len(fields))
	for _, field := range fields {
		c, err := colour.ParseHex(field)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransformerOutput, err)
		}
		colours = append(colours, c)
	}
	return colours, nil
}
