package logsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
)

// PubsubSink publishes audit records to a pubsub topic for a remote log
// collector. Publishes are batched by the client; Flush drains the batch.
type PubsubSink struct {
	topic *pubsub.Topic
}

// NewPubsubSink creates a new PubsubSink.
func NewPubsubSink(topic *pubsub.Topic) (*PubsubSink, error) {
	if topic == nil {
		return nil, errors.New("topic is nil")
	}
	return &PubsubSink{topic: topic}, nil
}

// Write publishes the record as a JSON message. It does not wait for the
// server ack: audit writes must not sit on the request path, and Flush is
// the point where delivery is awaited.
func (s *PubsubSink) Write(ctx context.Context, record map[string]any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshaling audit record: %w", err)
	}
	s.topic.Publish(ctx, &pubsub.Message{Data: data})
	return nil
}

// Flush blocks until every published record has been sent. Safe to call any
// number of times, including with no records published.
func (s *PubsubSink) Flush(ctx context.Context) error {
	s.topic.Flush()
	return nil
}
