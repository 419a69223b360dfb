package di

import (
	"flag"
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/adapters/browser"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/factory"
	"github.com/mikey/phishguard/internal/logging"
	"github.com/mikey/phishguard/internal/render"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Input flags
	TextFile string
	HTMLFile string
	EMLFile  string
	Live     bool

	// Actions
	Status      bool
	SetAPIKey   string
	ClearAPIKey bool
	Last        bool

	// Output and configuration
	Format     string
	BackendURL string
	ConfigFile string
	Verbose    bool
	JSONLog    bool
}

// NewFlagSet binds the CLI flags to a new flag set
func NewFlagSet(name string, flags *CLIFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	// Input flags
	fs.StringVar(&flags.TextFile, "file", "", "Plain text email file (use stdin if no source is specified)")
	fs.StringVar(&flags.HTMLFile, "html", "", "Saved HTML snapshot of the open message view")
	fs.StringVar(&flags.EMLFile, "eml", "", "Raw MIME message (.eml)")
	fs.BoolVar(&flags.Live, "live", false, "Capture the open mail tab of a Chrome started with --remote-debugging-port")

	// Actions
	fs.BoolVar(&flags.Status, "status", false, "Show backend and API key status and exit")
	fs.StringVar(&flags.SetAPIKey, "set-api-key", "", "Store the Gemini API key and exit")
	fs.BoolVar(&flags.ClearAPIKey, "clear-api-key", false, "Remove the stored Gemini API key and exit")
	fs.BoolVar(&flags.Last, "last", false, "Show the last stored scan result and exit")

	// Output and configuration
	fs.StringVar(&flags.Format, "format", "text", "Report format (text, html)")
	fs.StringVar(&flags.BackendURL, "backend", "", "Analysis backend base URL (overrides backend.url)")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	return fs
}

// ParseFlags parses command line arguments into a CLIFlags struct
func ParseFlags(name string, args []string, output io.Writer) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := NewFlagSet(name, flags)
	fs.SetOutput(output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration, command line flags win over the file and environment
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.Load(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		if flags.BackendURL != "" {
			cfg.Set("backend.url", flags.BackendURL)
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideScanService(container); err != nil {
		return nil, err
	}

	// Register live tab source
	if err := container.Provide(func(f *factory.ExtractorFactory) *browser.TabSource {
		return f.CreateTabSource()
	}); err != nil {
		return nil, err
	}

	// Register renderer
	if err := container.Provide(func(flags *CLIFlags) (core.Renderer, error) {
		return render.New(flags.Format)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
