package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minsu-dev/fortune-bot/configs"
	"github.com/minsu-dev/fortune-bot/internal/infrastructure/gemini"
	"github.com/minsu-dev/fortune-bot/internal/infrastructure/slack"
	"github.com/minsu-dev/fortune-bot/internal/usecases/audit"
	"github.com/minsu-dev/fortune-bot/internal/usecases/extract"
	"github.com/minsu-dev/fortune-bot/internal/usecases/fortune"
	"github.com/minsu-dev/fortune-bot/internal/usecases/prompt"
	"github.com/minsu-dev/fortune-bot/internal/usecases/purge"
	"github.com/minsu-dev/fortune-bot/pkg/logger"
)

var devLogging bool

var rootCmd = &cobra.Command{
	Use:   "fortune-bot",
	Short: "Daily fortune delivery bot for Slack",
	Long: `fortune-bot reads recipients from a Slack list, generates a
personalized daily fortune for each via the Gemini API, and delivers it to
a shared channel or as direct messages. The purge subcommand removes
previously bot-authored messages from a channel.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.InitializeLogger(devLogging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily fortune batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.AuditMode {
			logger.L().Info("AUDIT_MODE set, running audit instead of delivery")
			return runAudit(cmd.Context(), cfg)
		}
		return runBatch(cmd.Context(), cfg)
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Validate every list item without generating or delivering",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runAudit(cmd.Context(), cfg)
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete bot-authored messages from the configured channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runPurge(cmd.Context(), cfg)
	},
}

func loadConfig() (*configs.Config, error) {
	cfg, err := configs.NewConfig(".")
	if err != nil {
		logger.L().Error("Failed to load configuration", zap.Error(err))
		return nil, err
	}
	logger.L().Info("Configuration loaded",
		zap.String("listID", cfg.SlackListID),
		zap.String("channelID", cfg.SlackChannelID),
		zap.String("geminiModel", cfg.GeminiModel),
		zap.Int("adminCount", len(cfg.Admins())),
		zap.Bool("auditMode", cfg.AuditMode),
	)
	return cfg, nil
}

func newExtractor(cfg *configs.Config) *extract.Extractor {
	return extract.NewExtractor(cfg.Columns(), cfg.GenderOptions(), cfg.TimeOptions(), cfg.Admins())
}

func runBatch(ctx context.Context, cfg *configs.Config) error {
	runLog := logger.L().With(zap.String("runID", uuid.NewString()))

	slackClient := slack.NewClient(cfg.SlackBotToken)
	generator, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		runLog.Error("Failed to initialize generation client", zap.Error(err))
		return err
	}

	uc := fortune.NewUseCase(fortune.Deps{
		Lists:     slackClient,
		Identity:  slackClient,
		Messenger: slackClient,
		Generator: generator,
		Extractor: newExtractor(cfg),
		Composer:  prompt.Composer{},
		ListID:    cfg.SlackListID,
		ChannelID: cfg.SlackChannelID,
		AdminIDs:  cfg.Admins(),
		Logger:    runLog,
	})

	summary, err := uc.Run(ctx)
	if err != nil {
		runLog.Error("Batch run failed", zap.Error(err))
		return err
	}
	fmt.Print(summary.Render())
	return nil
}

func runAudit(ctx context.Context, cfg *configs.Config) error {
	runLog := logger.L().With(zap.String("runID", uuid.NewString()))

	slackClient := slack.NewClient(cfg.SlackBotToken)
	uc := audit.NewUseCase(slackClient, newExtractor(cfg), cfg.SlackListID, runLog)

	report, err := uc.Run(ctx)
	if err != nil {
		runLog.Error("Audit failed", zap.Error(err))
		return err
	}
	fmt.Print(report.Render())
	return nil
}

func runPurge(ctx context.Context, cfg *configs.Config) error {
	runLog := logger.L().With(zap.String("runID", uuid.NewString()))

	slackClient := slack.NewClient(cfg.SlackBotToken)
	uc := purge.NewUseCase(slackClient, slackClient, cfg.PurgeChannel(), cfg.PurgeDryRun, cfg.PurgeMaxDeletions, runLog)

	summary, err := uc.Run(ctx)
	if err != nil {
		runLog.Error("Purge failed", zap.Error(err))
		return err
	}
	fmt.Print(summary.Render())
	return nil
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&devLogging, "dev", false, "use development-friendly console logging")
	rootCmd.AddCommand(runCmd, auditCmd, purgeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
