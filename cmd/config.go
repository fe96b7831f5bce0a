package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/nearabl-cli/internal/config"
	"github.com/KaramelBytes/nearabl-cli/internal/parser"
	"github.com/KaramelBytes/nearabl-cli/internal/record"
	"github.com/KaramelBytes/nearabl-cli/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set nearabl configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "source_url: %s\n", cfg.SourceURL)
		fmt.Fprintf(out, "decoder: %s\n", cfg.Decoder)
		fmt.Fprintf(out, "search_field: %s\n", cfg.SearchField)
		fmt.Fprintf(out, "summary_field: %s\n", cfg.SummaryField)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(out, "retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Fprintf(out, "retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		if cfg.S3Endpoint != "" {
			fmt.Fprintf(out, "s3_endpoint: %s\n", cfg.S3Endpoint)
		}
		if cfg.S3AccessKey != "" {
			fmt.Fprintf(out, "s3_access_key: %s\n", mask(cfg.S3AccessKey))
			fmt.Fprintf(out, "s3_secret_key: %s\n", mask(cfg.S3SecretKey))
		}
		if cfg.S3Region != "" {
			fmt.Fprintf(out, "s3_region: %s\n", cfg.S3Region)
		}
		fmt.Fprintf(out, "s3_secure: %t\n", cfg.S3Secure)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Persist file/env values only, not this run's flag overrides.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "source_url":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("source_url cannot be empty")
		}
		c.SourceURL = val
	case "decoder":
		d, err := parser.Lookup(val)
		if err != nil {
			return fmt.Errorf("invalid decoder: %s (use %s)", val, strings.Join(parser.Names(), "|"))
		}
		c.Decoder = d.Name()
	case "search_field", "summary_field":
		f, err := record.ParseField(val)
		if err != nil {
			return fmt.Errorf("invalid %s: %s (use one of %s)", key, val, strings.Join(record.FieldNames(), ", "))
		}
		if key == "search_field" {
			c.SearchField = string(f)
		} else {
			c.SummaryField = string(f)
		}
	case "output_format":
		f, err := render.ParseFormat(val)
		if err != nil {
			return err
		}
		c.OutputFormat = f
	case "http_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
		}
		c.HTTPTimeoutSec = i
	case "retry_max_attempts":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for retry_max_attempts: %v (must be >= 1)", val)
		}
		c.RetryMaxAttempts = i
	case "retry_base_delay_ms":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for retry_base_delay_ms: %v", val)
		}
		c.RetryBaseDelayMs = i
	case "retry_max_delay_ms":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for retry_max_delay_ms: %v", val)
		}
		c.RetryMaxDelayMs = i
	case "log_level":
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(val))); err != nil {
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
		c.LogLevel = lvl.String()
	case "log_format":
		switch strings.ToLower(val) {
		case "console", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use console|json)", val)
		}
	case "s3_endpoint":
		c.S3Endpoint = val
	case "s3_access_key":
		c.S3AccessKey = val
	case "s3_secret_key":
		c.S3SecretKey = val
	case "s3_region":
		c.S3Region = val
	case "s3_secure":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for s3_secure: %w", err)
		}
		c.S3Secure = b
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
