package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lshigami/uteach/config"
	_ "github.com/lshigami/uteach/docs" // Swagger docs
	"github.com/lshigami/uteach/internal/controller"
	"github.com/lshigami/uteach/internal/logger"
	"github.com/lshigami/uteach/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// @title UTeach API
// @version 1.0
// @description Learning-by-teaching backend: upload material, answer AI student questions, receive feedback.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8000
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "uteach",
		Short: "Learning-by-teaching API server",
	}

	serve := serveCmd()
	root.AddCommand(serve, extractCmd())

	// "serve" runs when no subcommand is given.
	root.RunE = serve.RunE
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file|url>",
		Short: "Print the text extracted from a PDF file or web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			text, err := extract(cmd.Context(), service.NewExtractorService(cfg), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func extract(ctx context.Context, extractor service.ExtractorService, source string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return extractor.ExtractFromURL(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return extractor.ExtractFromDocument(data)
}

func loadConfig() (*config.Config, error) {
	logger.Init("info", false)
	cfg, err := config.NewConfig()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	return cfg, nil
}

func runServer(cfg *config.Config) error {
	app := fx.New(
		fx.Supply(cfg),

		// Storage
		fx.Provide(NewRepositories),

		// Services
		fx.Provide(
			service.NewLLMService,
			service.NewExtractorService,
			service.NewQuestionGenerator,
			service.NewFeedbackEvaluator,
			service.NewMaterialService,
			service.NewSessionService,
		),

		// HTTP
		fx.Provide(
			NewVerifier,
			controller.NewController,
			NewGinEngine,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return err
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	return app.Stop(context.Background())
}
