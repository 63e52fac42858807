package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/geofix/internal/config"
	"github.com/couchcryptid/geofix/internal/domain"
)

// Writer publishes run results to Kafka. Accepted records go to the sink
// topic; rejections go to the rejected topic when one is configured.
// It implements pipeline.Loader.
type Writer struct {
	accepted  *kafkago.Writer
	rejected  *kafkago.Writer
	batchSize int
	logger    *slog.Logger
}

// NewWriter creates Kafka producers for the configured topics.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &Writer{
		accepted:  newProducer(cfg, cfg.KafkaSinkTopic),
		batchSize: cfg.BatchSize,
		logger:    logger,
	}
	if cfg.KafkaRejectedTopic != "" {
		w.rejected = newProducer(cfg, cfg.KafkaRejectedTopic)
	}
	return w
}

func newProducer(cfg *config.Config, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.BatchSize,
	}
}

// Load publishes accepted records, then rejections, in chunks of the
// configured batch size.
func (w *Writer) Load(ctx context.Context, res domain.Result) error {
	msgs := make([]kafkago.Message, 0, len(res.Accepted))
	for i := range res.Accepted {
		msg, err := recordMessage(res.Accepted[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := w.publish(ctx, w.accepted, msgs); err != nil {
		return fmt.Errorf("publish accepted records: %w", err)
	}

	if w.rejected == nil {
		return nil
	}
	msgs = msgs[:0]
	for i := range res.Rejected {
		msg, err := rejectionMessage(res.Rejected[i])
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := w.publish(ctx, w.rejected, msgs); err != nil {
		return fmt.Errorf("publish rejections: %w", err)
	}
	return nil
}

func (w *Writer) publish(ctx context.Context, producer *kafkago.Writer, msgs []kafkago.Message) error {
	size := w.batchSize
	if size <= 0 {
		size = len(msgs)
	}
	for start := 0; start < len(msgs); start += size {
		end := min(start+size, len(msgs))
		if err := producer.WriteMessages(ctx, msgs[start:end]...); err != nil {
			return err
		}
		w.logger.Debug("published batch", "topic", producer.Topic, "count", end-start)
	}
	return nil
}

func (w *Writer) Close() error {
	err := w.accepted.Close()
	if w.rejected != nil {
		if rerr := w.rejected.Close(); err == nil {
			err = rerr
		}
	}
	return err
}

// recordMessage marshals an accepted LocationRecord into a Kafka message.
func recordMessage(rec domain.LocationRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize location record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "correction_tag", Value: []byte(rec.Tag)},
			{Key: "region", Value: []byte(rec.Region)},
		},
	}, nil
}

func rejectionMessage(rj domain.Rejection) (kafkago.Message, error) {
	data, err := json.Marshal(rj)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize rejection: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rj.Record.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "correction_tag", Value: []byte(rj.Record.Tag)},
			{Key: "region", Value: []byte(rj.Record.Region)},
			{Key: "reason", Value: []byte(rj.Reason)},
		},
	}, nil
}
