// Package stream mirrors audit entries onto a Kafka topic for downstream
// consumers (SIEM, analytics).
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "trustestate/pkg/platform/audit"
)

// Producer is the subset of *kgo.Client used here.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSink publishes entries keyed by target ID so every entry about one
// property or user lands on the same partition in order.
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(producer Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

type message struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Category  string            `json:"category"`
	TargetID  string            `json:"target_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	ActorID   string            `json:"actor_id,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	CreatedAt string            `json:"created_at"`
}

func (s *KafkaSink) Publish(ctx context.Context, entry audit.Entry) error {
	msg := message{
		ID:        entry.ID.String(),
		Action:    entry.Action.String(),
		Category:  string(entry.Action.Category()),
		TargetID:  entry.TargetID,
		Metadata:  entry.Metadata,
		RequestID: entry.RequestID,
		CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if !entry.ActorID.IsNil() {
		msg.ActorID = entry.ActorID.String()
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal audit message: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(entry.TargetID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(msg.Category)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit message: %w", err)
	}
	return nil
}
