package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	cfgPkg "github.com/lumoshq/lumos/pkg/config"
	"github.com/lumoshq/lumos/pkg/dataset"
	"github.com/lumoshq/lumos/pkg/llm"
	"github.com/lumoshq/lumos/server"
)

func main() {
	var configPath, csvPath string
	var port int
	var streaming bool

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&csvPath, "csv", "", "Path to the engagement CSV file")
	flag.IntVar(&port, "port", 0, "HTTP port")
	flag.BoolVar(&streaming, "stream", false, "Stream LLM analyses over the websocket")
	flag.Parse()

	streamFlagSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "stream" {
			streamFlagSet = true
		}
	})

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	config, err := cfgPkg.LoadConfig(configPath)
	if err != nil {
		logger.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	if csvPath != "" {
		config.Dashboard.CSVPath = csvPath
	}
	if port > 0 {
		config.Dashboard.Port = port
	}
	if streamFlagSet {
		config.Dashboard.Streaming = streaming
	}

	if errs := config.ValidateDashboard(); len(errs) > 0 {
		for _, e := range errs {
			logger.Error("invalid config", slog.String("field", e.Field), slog.String("message", e.Message))
		}
		os.Exit(1)
	}

	posts, err := dataset.LoadFile(config.Dashboard.CSVPath)
	if err != nil {
		logger.Error("load csv", slog.String("path", config.Dashboard.CSVPath), slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("loaded engagement data", slog.Int("posts", len(posts)))

	analyzer, err := llm.NewWithConfig(llm.AnalyzerConfig{
		BaseURL:     config.LLM.BaseURL,
		APIKey:      config.LLM.APIKey,
		Model:       config.LLM.Model,
		MaxTokens:   config.LLM.MaxTokens,
		Temperature: config.LLM.Temperature,
	})
	if err != nil {
		logger.Error("init analyzer", slog.Any("err", err))
		os.Exit(1)
	}

	srv, err := server.New(server.Config{
		Port:      config.Dashboard.Port,
		Streaming: config.Dashboard.Streaming,
	}, posts, analyzer, logger)
	if err != nil {
		logger.Error("init server", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}
