package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/phishguard/internal/adapters/browser"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/di"
	"github.com/mikey/phishguard/internal/factory"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	flags, err := di.ParseFlags("phishguard", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	err = container.Invoke(func(deps cliDeps) {
		defer deps.Logger.Sync()
		defer deps.Store.Close()

		a := &app{
			flags:    deps.Flags,
			scanner:  deps.Service,
			tabs:     deps.Tabs,
			renderer: deps.Renderer,
			logger:   deps.Logger,
			stdin:    os.Stdin,
			stdout:   os.Stdout,
		}
		exitCode = a.run(ctx)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", dig.RootCause(err))
		return 1
	}
	return exitCode
}

type cliDeps struct {
	dig.In

	Flags    *di.CLIFlags
	Service  *core.ScanService
	Tabs     *browser.TabSource
	Renderer core.Renderer
	Store    factory.Store
	Logger   *zap.Logger
}

// pageSource captures a scan source from a live browser tab
type pageSource interface {
	Capture(ctx context.Context) (core.Source, error)
}

type scanner interface {
	Scan(ctx context.Context, src core.Source) (*core.NormalizedResult, error)
	LastResult(ctx context.Context) (*core.NormalizedResult, error)
	SaveAPIKey(ctx context.Context, key string) error
	ClearAPIKey(ctx context.Context) error
	Status(ctx context.Context) core.Status
}

type app struct {
	flags    *di.CLIFlags
	scanner  scanner
	tabs     pageSource
	renderer core.Renderer
	logger   *zap.Logger
	stdin    io.Reader
	stdout   io.Writer
}

// run executes the requested action and returns the process exit code
func (a *app) run(ctx context.Context) int {
	switch {
	case a.flags.SetAPIKey != "":
		if err := a.scanner.SaveAPIKey(ctx, a.flags.SetAPIKey); err != nil {
			fmt.Fprintf(a.stdout, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(a.stdout, "API key saved")
		return 0

	case a.flags.ClearAPIKey:
		if err := a.scanner.ClearAPIKey(ctx); err != nil {
			fmt.Fprintf(a.stdout, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(a.stdout, "API key cleared")
		return 0

	case a.flags.Status:
		status := a.scanner.Status(ctx)
		fmt.Fprintf(a.stdout, "Backend: %s\nAPI key: %s\n", status.Backend, status.APIKey)
		return 0

	case a.flags.Last:
		result, err := a.scanner.LastResult(ctx)
		if errors.Is(err, core.ErrNotFound) {
			fmt.Fprintln(a.stdout, "No scan result stored")
			return 1
		}
		if err != nil {
			return a.fail(err)
		}
		return a.render(result)
	}

	src, err := a.readSource(ctx)
	if err != nil {
		return a.fail(err)
	}

	result, err := a.scanner.Scan(ctx, src)
	if err != nil {
		return a.fail(err)
	}
	return a.render(result)
}

func (a *app) render(result *core.NormalizedResult) int {
	if err := a.renderer.Render(a.stdout, result); err != nil {
		a.logger.Error("Failed to render report", zap.Error(err))
		return 1
	}
	return 0
}

// fail renders the error display in place of a report
func (a *app) fail(err error) int {
	if renderErr := a.renderer.RenderError(a.stdout, err); renderErr != nil {
		a.logger.Error("Failed to render error", zap.Error(renderErr))
	}
	return 1
}

// readSource builds the scan source from at most one source flag, falling back to stdin
func (a *app) readSource(ctx context.Context) (core.Source, error) {
	selected := 0
	for _, set := range []bool{a.flags.TextFile != "", a.flags.HTMLFile != "", a.flags.EMLFile != "", a.flags.Live} {
		if set {
			selected++
		}
	}
	if selected > 1 {
		return core.Source{}, errors.New("only one of -file, -html, -eml and -live may be given")
	}

	switch {
	case a.flags.Live:
		a.logger.Debug("Capturing open mail tab")
		return a.tabs.Capture(ctx)
	case a.flags.HTMLFile != "":
		data, err := os.ReadFile(a.flags.HTMLFile)
		if err != nil {
			return core.Source{}, fmt.Errorf("failed to read HTML snapshot: %w", err)
		}
		return core.Source{HTML: string(data)}, nil
	case a.flags.EMLFile != "":
		data, err := os.ReadFile(a.flags.EMLFile)
		if err != nil {
			return core.Source{}, fmt.Errorf("failed to read message: %w", err)
		}
		return core.Source{MIME: data}, nil
	case a.flags.TextFile != "":
		data, err := os.ReadFile(a.flags.TextFile)
		if err != nil {
			return core.Source{}, fmt.Errorf("failed to read email file: %w", err)
		}
		return core.Source{Text: string(data)}, nil
	default:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return core.Source{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return core.Source{Text: string(data)}, nil
	}
}
