package event

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"

	"anchor/core"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		return db.Update().AutoMigrate(core.Event{}).Error
	})
}

type eventStore struct {
	db *db.DB
}

// New new event store
func New(db *db.DB) core.EventStore {
	return &eventStore{
		db: db,
	}
}

func (s *eventStore) Create(ctx context.Context, event *core.Event) error {
	return s.db.Update().Where("trace_id=?", event.TraceID).FirstOrCreate(event).Error
}

func (s *eventStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	var events []*core.Event
	if err := s.db.View().Where("id > ?", fromID).Order("id ASC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (s *eventStore) ListUnpublished(ctx context.Context, limit int) ([]*core.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	var events []*core.Event
	if err := s.db.View().Where("published_at IS NULL").Order("id ASC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (s *eventStore) MarkPublished(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}

	return s.db.Update().Model(core.Event{}).
		Where("id IN (?)", ids).
		Update("published_at", time.Now()).Error
}
