package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/handlers"
	"github.com/nijaru/yt-summary/httpclient"
	"github.com/nijaru/yt-summary/logger"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/summarizer"
	"github.com/nijaru/yt-summary/transcription"
	"github.com/nijaru/yt-summary/translation"
	"github.com/nijaru/yt-summary/youtube"
)

func main() {
	cfg := config.LoadConfig()
	if err := config.ValidateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logrusLogger, closer, err := logger.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closer.Close()

	client, err := httpclient.New(cfg.HTTP)
	if err != nil {
		logrusLogger.WithError(err).Fatal("Failed to create HTTP client")
	}

	// Tokenizer and stop words are built once and shared read-only.
	tokenizer, err := summarizer.NewPunktTokenizer()
	if err != nil {
		logrusLogger.WithError(err).Fatal("Failed to load sentence tokenizer")
	}

	pages := youtube.NewPageClient(client, cfg.YouTube.WatchURL, cfg.HTTP.UserAgent)
	captions := youtube.NewCaptionClient(client, cfg.YouTube.InnertubeURL)

	cascade := transcription.NewDefaultCascade(captions, pages,
		transcription.WithLogger(logrusLogger),
	)
	sum := summarizer.New(tokenizer, summarizer.EnglishStopWords(),
		summarizer.WithSentenceCount(cfg.Summary.SentenceCount),
		summarizer.WithLogger(logrusLogger),
	)
	translator := translation.NewLibreTranslate(client, cfg.Translate.URL,
		translation.WithAPIKey(cfg.Translate.APIKey),
		translation.WithSourceLang(cfg.Translate.SourceLang),
		translation.WithLogger(logrusLogger),
	)

	svc := summary.NewService(cascade, sum, translator)
	server := handlers.NewServer(cfg, svc, handlers.WithLogger(logrusLogger))

	serverErrors := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logrusLogger.WithError(err).Fatal("Server error")
	case sig := <-shutdown:
		logrusLogger.WithField("signal", sig.String()).Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logrusLogger.WithError(err).Error("Graceful shutdown failed")
			os.Exit(1)
		}
	}
}
