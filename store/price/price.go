package price

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"

	"anchor/core"
)

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		return db.Update().AutoMigrate(core.Price{}).Error
	})
}

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.PriceStore {
	return &priceStore{
		db: db,
	}
}

func (s *priceStore) Save(ctx context.Context, quote *core.Quote) error {
	row := core.Price{
		FeedID:    quote.FeedID,
		Price:     quote.Price,
		Decimals:  quote.Decimals,
		UpdatedAt: quote.UpdatedAt,
	}

	// one row per observation; re-polling the same observation is a no-op
	return s.db.Update().
		Where("feed_id=? AND updated_at=?", quote.FeedID, quote.UpdatedAt).
		FirstOrCreate(&row).Error
}

func (s *priceStore) Latest(ctx context.Context, feedID string) (*core.Quote, error) {
	var row core.Price
	if err := s.db.View().Where("feed_id=?", feedID).Order("updated_at DESC").First(&row).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNoQuote
		}
		return nil, err
	}

	return &core.Quote{
		FeedID:    row.FeedID,
		Price:     row.Price,
		Decimals:  row.Decimals,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
