package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"anchor/core"
)

const (
	streamName    = "ANCHOR_EVENTS"
	subjectPrefix = "anchor.events"
	batchSize     = 100
)

// Worker drains the journal to NATS JetStream for downstream
// consumers. Publishing is best effort: rows stay queued until they go
// out, and the journal remains the source of truth either way.
type Worker struct {
	js     jetstream.JetStream
	events core.EventStore
}

// New new event publisher
func New(js jetstream.JetStream, events core.EventStore) *Worker {
	return &Worker{
		js:     js,
		events: events,
	}
}

// EnsureStream creates the outbound events stream.
func EnsureStream(ctx context.Context, js jetstream.JetStream) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ".>"},
	})

	return err
}

func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				logrus.WithError(err).Error("drain events failed")
			}
		}
	}
}

func (w *Worker) drain(ctx context.Context) error {
	events, err := w.events.ListUnpublished(ctx, batchSize)
	if err != nil {
		return err
	}

	published := make([]uint64, 0, len(events))
	for _, event := range events {
		if err := w.publish(ctx, event); err != nil {
			logrus.WithError(err).WithField("event", event.ID).Warn("publish failed")
			break
		}

		published = append(published, event.ID)
	}

	if len(published) == 0 {
		return nil
	}

	return w.events.MarkPublished(ctx, published)
}

func (w *Worker) publish(ctx context.Context, event *core.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s.%s", subjectPrefix, event.Type)
	_, err = w.js.Publish(ctx, subject, data)
	return err
}
