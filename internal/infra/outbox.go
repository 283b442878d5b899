package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/courtside/platform/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TopicPrefix namespaces every published event topic.
const TopicPrefix = "courtside."

// OutboxPoller polls the booking_outbox table and publishes events to Kafka.
// Publishing is at-least-once: a row is deleted only after its publish
// succeeded, so a crash between publish and delete re-sends.
type OutboxPoller struct {
	pool      *pgxpool.Pool
	outbox    repository.OutboxRepository
	producer  *KafkaProducer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates a new outbox poller.
func NewOutboxPoller(pool *pgxpool.Pool, outbox repository.OutboxRepository, producer *KafkaProducer, logger *slog.Logger) *OutboxPoller {
	return &OutboxPoller{
		pool:      pool,
		outbox:    outbox,
		producer:  producer,
		logger:    logger,
		interval:  500 * time.Millisecond,
		batchSize: 100,
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *OutboxPoller) Start(ctx context.Context) {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("outbox poller stopped")
				return
			case <-ticker.C:
				if err := p.poll(ctx); err != nil {
					p.logger.Error("outbox poll error", "error", err)
				}
			}
		}
	}()
}

func (p *OutboxPoller) poll(ctx context.Context) error {
	drafts, err := p.outbox.FetchUnpublished(ctx, p.pool, p.batchSize)
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		return nil
	}

	var published []int64
	for _, d := range drafts {
		topic := TopicPrefix + string(d.AggregateType) + "." + string(d.EventType)
		key := []byte(d.PartitionKey)

		msg, _ := json.Marshal(d)

		if err := p.producer.Publish(ctx, topic, key, msg); err != nil {
			p.logger.Error("kafka publish failed", "event_id", d.EventID, "error", err)
			continue
		}
		published = append(published, d.ID)
	}

	if err := p.outbox.MarkPublished(ctx, p.pool, published); err != nil {
		return err
	}

	p.logger.Debug("outbox poll complete", "published", len(published))
	return nil
}
