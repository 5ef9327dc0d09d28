package main

import (
	"fmt"
	"guildwatch/internal/common"
	"guildwatch/internal/config"
	"guildwatch/internal/notify"
	"guildwatch/internal/report"
	"guildwatch/internal/wynnapi"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagGuild   string
	flagWebhook string
	flagOutput  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "guildwatch",
	Short: "Report Wynncraft guild member inactivity to a Discord webhook",
	Long: `guildwatch fetches the roster of a Wynncraft guild from the public API,
looks up every member's last join date, and writes a plaintext report
ranked by inactivity, most inactive members first. If a Discord webhook
is configured, the report file is uploaded there as well.

Configuration comes from the environment (or a .env file); the flags
below override it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagGuild, "guild", "", "Guild prefix to report on (overrides GUILD_PREFIX)")
	rootCmd.Flags().StringVar(&flagWebhook, "webhook", "", "Discord webhook url to upload the report to (overrides WEBHOOK_URL)")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "File to write the report to (overrides OUTPUT_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func run() error {

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagGuild != "" {
		cfg.GuildPrefix = flagGuild
	}
	if flagWebhook != "" {
		cfg.WebhookURL = flagWebhook
	}
	if flagOutput != "" {
		cfg.OutputFile = flagOutput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Build the report
	api := wynnapi.NewWynnApi(cfg.MaxRetries, cfg.RetryDelay, cfg.RequestTimeout, []common.Restriction{{Requests: cfg.RateLimit, Duration: cfg.RateWindow}})
	builder := report.NewBuilder(&api, cfg.DelayMin, cfg.DelayMax)
	rows, err := builder.Build(cfg.GuildPrefix)
	if err != nil {
		return err
	}

	// Render and save
	generatedAt := time.Now().UTC()
	body := report.Render(cfg.GuildPrefix, generatedAt, rows)
	if err := os.WriteFile(cfg.OutputFile, body, 0644); err != nil {
		return fmt.Errorf("could not write report file %s: %w", cfg.OutputFile, err)
	}
	log.Info().Msg(fmt.Sprintf("Report saved to '%s'", cfg.OutputFile))

	// Deliver to the webhook. Failures here are logged, never fatal:
	// the report file is already on disk
	notifier, err := notify.NewNotifier(cfg.WebhookURL, cfg.UploadTimeout)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Webhook url is not usable: %v", err))
		return nil
	}
	caption := fmt.Sprintf("Guild report for `%s` generated at %s UTC", cfg.GuildPrefix, generatedAt.Format(report.TIMESTAMP_LAYOUT))
	if err := notifier.Send(cfg.OutputFile, caption); err != nil {
		log.Error().Msg(fmt.Sprintf("Failed to send webhook file: %v", err))
	}

	return nil
}

func main() {

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
