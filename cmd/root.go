package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	cfgpkg "github.com/KaramelBytes/nearabl-cli/internal/config"
	"github.com/KaramelBytes/nearabl-cli/internal/loader"
	"github.com/KaramelBytes/nearabl-cli/internal/logging"
	"github.com/KaramelBytes/nearabl-cli/internal/parser"
	"github.com/KaramelBytes/nearabl-cli/internal/render"
	"github.com/KaramelBytes/nearabl-cli/internal/source"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile     string
	debug       bool
	flagSource  string
	flagDecoder string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger is replaced in PersistentPreRunE once config is known
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "nearabl",
	Short: "nearabl: search and summarize a contact directory published as CSV",
	Long: `nearabl fetches a contact directory CSV (HTTP, local file or S3 object), decodes it
and lets you search it by any field, summarize it by location and browse it interactively.
When the dataset cannot be fetched or decoded a placeholder record is shown instead.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (rootCmd -> ensureConfig -> applyFlagOverrides -> rootCmd).
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		l, err := logging.New(c.LogLevel, c.LogFormat, debug)
		if err != nil {
			return err
		}
		logger = l
		return nil
	}

	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.nearabl/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "dataset location: http(s) URL, file path or s3://bucket/key (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDecoder, "decoder", "", "CSV decoder: standard|compat (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP timeout in seconds, 0 waits indefinitely (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "total HTTP attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Reported again by PersistentPreRunE for commands that run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	applyFlagOverrides(cfg)
}

// applyFlagOverrides copies explicitly set global flags onto c.
func applyFlagOverrides(c *cfgpkg.Global) {
	f := rootCmd.PersistentFlags()
	if f.Changed("source") && flagSource != "" {
		c.SourceURL = flagSource
	}
	if f.Changed("decoder") && flagDecoder != "" {
		c.Decoder = flagDecoder
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec >= 0 {
		c.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		c.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		c.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		c.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

func ensureConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(c)
	cfg = c
	return cfg, nil
}

// newLoader wires the configured source and decoder into a Loader.
func newLoader() (*loader.Loader, error) {
	c, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	dec, err := parser.Lookup(c.Decoder)
	if err != nil {
		return nil, err
	}
	src, err := source.Open(c.SourceURL, source.Options{
		HTTPTimeout:      time.Duration(c.HTTPTimeoutSec) * time.Second,
		RetryMaxAttempts: c.RetryMaxAttempts,
		RetryBaseDelay:   time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
		RetryMaxDelay:    time.Duration(c.RetryMaxDelayMs) * time.Millisecond,
		S3: source.S3Options{
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Region:    c.S3Region,
			Secure:    c.S3Secure,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return loader.New(src, loader.WithDecoder(dec), loader.WithLogger(logger)), nil
}

// loadDataset runs one load and reports a fallback on stderr. A fallback is
// not a command failure.
func loadDataset(cmd *cobra.Command) (*loader.Result, error) {
	ld, err := newLoader()
	if err != nil {
		return nil, err
	}
	res := ld.Load(cmd.Context())
	if res.UsedFallback {
		fmt.Fprintln(cmd.ErrOrStderr(), render.FallbackNote(res.Message))
	}
	return res, nil
}
