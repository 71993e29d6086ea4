package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// findOrCreate inserts model unless a row with the same natural key already
// exists, then reads back whichever row won. Concurrent callers with the same
// key end up with one row.
func findOrCreate[M any](ctx context.Context, db *gorm.DB, model *M, column string, key any) (*M, error) {
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: column}},
			DoNothing: true,
		}).
		Create(model).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var stored M
	if err := db.WithContext(ctx).Where(column+" = ?", key).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
