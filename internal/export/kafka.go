package export

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher sends one message per row, keyed by KeyColumn and carrying
// the run id in a header.
type KafkaPublisher struct {
	KeyColumn string
	writer    MessageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		KeyColumn: "cnpj",
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
		},
	}
}

// NewKafkaPublisherWithWriter publishes through w instead of a broker connection.
func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{KeyColumn: "cnpj", writer: w}
}

func (k *KafkaPublisher) Publish(ctx context.Context, runID string, rows Rows) (int, error) {
	key := -1
	for i, c := range rows.Columns() {
		if c == k.KeyColumn {
			key = i
			break
		}
	}

	now := time.Now()
	msgs := make([]kafka.Message, 0, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		m := kafka.Message{
			Value:   rows.RowJSON(i),
			Time:    now,
			Headers: []kafka.Header{{Key: "run_id", Value: []byte(runID)}},
		}
		if key >= 0 {
			m.Key = []byte(rows.Record(i)[key])
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 {
		return 0, nil
	}
	if err := k.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, err
	}
	return len(msgs), nil
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
