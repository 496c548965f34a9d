package consumer

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Consumer forwards payment events to the automation webhook (the n8n flow
// that drives downstream bookkeeping). Delivery is at-least-once; the
// receiving flow keys off event_id.
type Consumer struct {
	reader     *kafka.Reader
	webhookURL string
	client     *http.Client
}

func New(reader *kafka.Reader, webhookURL string) *Consumer {
	return &Consumer{
		reader:     reader,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Start consumes until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}
		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	log.Info().Str("key", string(msg.Key)).Msg("Payment event received")
	if c.webhookURL == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(msg.Value))
	if err != nil {
		log.Error().Msgf("Error building webhook request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().Msgf("Error forwarding event to automation webhook: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Msgf("Automation webhook returned status %d", resp.StatusCode)
	}
}
