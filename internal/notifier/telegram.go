package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/jobcompass/jobcompass/internal/domain/models"
	"github.com/jobcompass/jobcompass/internal/events"
	"github.com/jobcompass/jobcompass/internal/logger"
)

// Telegram posts a short digest to an ops chat after every pipeline run.
type Telegram struct {
	api    *botApi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64, bus EventBus.Bus) (*Telegram, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("authorized on account %s", api.Self.UserName)

	if err = botApi.SetLogger(log.StandardLogger()); err != nil {
		return nil, err
	}

	notifier := &Telegram{api: api, chatID: chatID}
	if err = bus.Subscribe(events.RunCompletedTopic, notifier.onRunCompleted); err != nil {
		return nil, err
	}
	return notifier, nil
}

func (t *Telegram) onRunCompleted(event events.RunCompleted) {
	msg := botApi.NewMessage(t.chatID, formatSummary(event.Summary, event.Err))
	if _, err := t.api.Send(msg); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("error occured while sending message: %v", err)
	}
}

func formatSummary(summary models.RunSummary, runErr error) string {

	var b strings.Builder

	if runErr != nil {
		fmt.Fprintf(&b, "pipeline run FAILED: %v\n", runErr)
	} else {
		fmt.Fprintf(&b, "pipeline run finished in %v\n", summary.Duration.Round(time.Millisecond))
	}

	fmt.Fprintf(&b, "collected: %d (dropped %d)\n", summary.Collected, summary.Dropped)
	fmt.Fprintf(&b, "valid: %d / invalid: %d (%.1f%%)\n",
		summary.Valid, summary.Invalid, summary.ValidationRate*100)
	fmt.Fprintf(&b, "duplicates removed: %d\n", summary.Duplicates)
	fmt.Fprintf(&b, "featured: %d (extraction fallbacks %d)\n",
		summary.Featured, summary.ExtractionFailures)
	fmt.Fprintf(&b, "avg quality: %.1f", summary.AvgQualityScore)

	if len(summary.TopErrorTypes) > 0 {
		b.WriteString("\ntop errors:")
		for _, e := range summary.TopErrorTypes {
			fmt.Fprintf(&b, " %s=%d", e.Rule, e.Count)
		}
	}

	return b.String()
}
