package kafkax

import (
	"time"

	"github.com/reallifeconnect/orgmeet/libs/config"
	"github.com/segmentio/kafka-go"
)

// Standard headers carried on every event message.
const (
	HeaderEventID   = "event_id"
	HeaderEventType = "event_type"
)

func SplitBrokers(raw string) []string {
	return config.SplitList(raw)
}

// NewWriter returns a writer that routes each message to the topic set on
// the message itself and hashes keys so one aggregate stays on one partition.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		// Topics follow the event type and are created on first use.
		AllowAutoTopicCreation: true,
	}
}

func HeaderValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
