package logger

import (
	"context"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/jobcompass/jobcompass/internal/config"
	"github.com/jobcompass/jobcompass/pkg/loki"
)

const ErrorTypeField = "error_type"

const (
	ErrorTypeDb       = "db"
	ErrorTypeSource   = "source"
	ErrorTypeAiApi    = "ai_api"
	ErrorTypeTgApi    = "tg_api"
	ErrorTypePipeline = "pipeline"
)

var logFile *os.File

func Setup(ctx context.Context, cfg config.LoggerConfig) {

	logDir := "./logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	var err error
	logFile, err = os.OpenFile(logDir+"/jobcompass.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	})

	addPrometheusHook()

	if cfg.LokiURL != "" {
		if err := addLokiHook(ctx, cfg); err != nil {
			log.Errorf("failed to enable loki logging: %v", err)
		}
	}

	switch cfg.LogLevel {
	case config.LevelDebug:
		log.SetLevel(log.DebugLevel)
	case config.LevelWarning:
		log.SetLevel(log.WarnLevel)
	case config.LevelError:
		log.SetLevel(log.ErrorLevel)
	case config.LevelFatal:
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func Cleanup() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

type lokiHook struct {
	client   *loki.Client
	minLevel log.Level
}

func (h *lokiHook) Fire(entry *log.Entry) error {
	return h.client.Push(loki.Entry{
		Level:   entry.Level.String(),
		Message: entry.Message,
	})
}

func (h *lokiHook) Levels() []log.Level {
	var levels []log.Level
	for _, level := range log.AllLevels {
		if level <= h.minLevel {
			levels = append(levels, level)
		}
	}
	return levels
}

func addLokiHook(ctx context.Context, cfg config.LoggerConfig) error {
	client, err := loki.NewClient(ctx, loki.Config{
		URL:      cfg.LokiURL,
		Username: cfg.LokiUser,
		Password: cfg.LokiPassword,
		Labels:   map[string]string{"app": cfg.AppName},
	})
	if err != nil {
		return err
	}
	log.AddHook(&lokiHook{client: client, minLevel: log.InfoLevel})
	log.Info("Loki logging enabled")
	return nil
}
