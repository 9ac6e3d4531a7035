package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/reallifeconnect/orgmeet/libs/kafkax"
	otelx "github.com/reallifeconnect/orgmeet/libs/otel"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	queue     *Queue
	logger    *slog.Logger
	brokers   []string
	pollEvery time.Duration
	batchSize int
	newWriter func() messageWriter
}

type PublisherConfig struct {
	Brokers   []string
	PollEvery time.Duration
	BatchSize int
}

func NewPublisher(queue *Queue, logger *slog.Logger, cfg PublisherConfig) *Publisher {
	if cfg.PollEvery <= 0 {
		cfg.PollEvery = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	p := &Publisher{
		queue:     queue,
		logger:    logger,
		brokers:   cfg.Brokers,
		pollEvery: cfg.PollEvery,
		batchSize: cfg.BatchSize,
	}
	p.newWriter = func() messageWriter {
		if len(p.brokers) == 0 {
			return logWriter{logger: p.logger}
		}
		return kafkax.NewWriter(p.brokers)
	}
	return p
}

// Run publishes queued events every poll interval until ctx is done, then
// makes one last attempt to flush what is left.
func (p *Publisher) Run(ctx context.Context) {
	if len(p.brokers) == 0 {
		p.logger.Warn("outbox publisher has no kafka brokers; events are logged only")
	}
	writer := p.newWriter()
	defer writer.Close()

	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			p.drain(flushCtx, writer)
			cancel()
			return
		case <-ticker.C:
			p.drain(ctx, writer)
		}
	}
}

func (p *Publisher) drain(ctx context.Context, writer messageWriter) {
	for p.queue.Len() > 0 {
		n, err := p.publishBatch(ctx, writer)
		if err != nil {
			p.logger.Error("outbox publish failed", "err", err, "pending", p.queue.Len())
			return
		}
		if n == 0 {
			return
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context, writer messageWriter) (int, error) {
	events := p.queue.FetchUnpublished(p.batchSize)
	if len(events) == 0 {
		return 0, nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msgCtx := otelx.ContextWithTraceContext(ctx, e.Traceparent, e.Tracestate)
		msg := kafka.Message{
			Topic: e.EventType,
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Time:  e.CreatedAt,
			Headers: []kafka.Header{
				{Key: kafkax.HeaderEventID, Value: []byte(e.EventID)},
				{Key: kafkax.HeaderEventType, Value: []byte(e.EventType)},
			},
		}
		msg.Headers = kafkax.InjectTraceHeaders(msgCtx, msg.Headers)
		msgs = append(msgs, msg)
	}
	if err := writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, err
	}
	p.queue.MarkPublished(len(events))
	return len(events), nil
}

// logWriter stands in for Kafka when no brokers are configured.
type logWriter struct {
	logger *slog.Logger
}

func (w logWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		w.logger.DebugContext(ctx, "event recorded",
			"topic", m.Topic,
			"key", string(m.Key),
			"event_id", kafkax.HeaderValue(m.Headers, kafkax.HeaderEventID),
		)
	}
	return nil
}

func (logWriter) Close() error { return nil }
