package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-to-slides/internal/config"
	"github.com/thywilljoshua/pdf-to-slides/internal/logger"
)

// globals holds the persistent flags and the config they resolve to.
type globals struct {
	configPath  string
	logLevel    string
	logFile     string
	provider    string
	api         string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int

	cfg config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&globals{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		logger.Close()
		stop()
		os.Exit(1)
	}
}

func newRootCmd(g *globals) *cobra.Command {
	root := &cobra.Command{
		Use:           "pdf2slides",
		Short:         "Turn a PDF into a Q&A template and a slide deck with an LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML config file (default: ./pdf2slides.yaml, then ~/.config/pdf2slides/config.yaml)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: trace|debug|info|warn|error")
	pf.StringVar(&g.logFile, "log-file", "", "also write JSON logs to this rotated file")
	pf.StringVar(&g.provider, "provider", "", "LLM provider: openai|gemini")
	pf.StringVar(&g.api, "api", "", "OpenAI-compatible endpoint style: chat|completion")
	pf.StringVar(&g.baseURL, "base-url", "", "base URL of the OpenAI-compatible server")
	pf.StringVar(&g.model, "model", "", "model name")
	pf.Float64Var(&g.temperature, "temperature", 0, "sampling temperature")
	pf.IntVar(&g.maxTokens, "max-tokens", 0, "maximum tokens per reply (0: provider default)")

	root.AddCommand(templateCmd(g), deckCmd(g), repairCmd(g))
	return root
}

// load resolves the config and applies only the flags the user set.
func (g *globals) load(cmd *cobra.Command) error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.UseProvider(g.provider)
	}
	if flags.Changed("api") {
		cfg.LLM.API = g.api
	}
	if flags.Changed("base-url") {
		cfg.LLM.BaseURL = g.baseURL
	}
	if flags.Changed("model") {
		cfg.LLM.Model = g.model
	}
	if flags.Changed("temperature") {
		cfg.LLM.Temperature = g.temperature
	}
	if flags.Changed("max-tokens") {
		cfg.LLM.MaxTokens = g.maxTokens
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = g.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = g.logFile
	}

	if err := logger.Init(logger.Options{
		Level:      cfg.Logging.Level,
		Pretty:     cfg.Logging.Pretty,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}); err != nil {
		return err
	}
	log.Debug().Str("provider", cfg.LLM.Provider).Str("api", cfg.LLM.API).Str("model", cfg.LLM.Model).Msg("config loaded")
	g.cfg = cfg
	return nil
}
