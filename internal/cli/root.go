package cli

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/StaryMuz/elektrina-monitor/internal/config"
	"github.com/StaryMuz/elektrina-monitor/internal/notifier"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Day-ahead electricity price alerts",
	Long: `monitor downloads the OTE day-ahead price table, finds the hours priced
below the configured limit and sends a report with a price chart to Telegram.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $CONFIG_PATH or "+config.DefaultPath+")")
}

// loadConfig loads and validates the configuration and applies log settings.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = config.DefaultPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setupLogging(cfg.Logging.Debug)
	return cfg, nil
}

// setupLogging configures the standard logrus logger. Debug adds caller
// locations and the per-row collector output.
func setupLogging(debug bool) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetLevel(log.InfoLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}
}

// parseDay reads a DD.MM.YYYY date in loc.
func parseDay(s string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(notifier.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD.MM.YYYY", s)
	}
	return day, nil
}
