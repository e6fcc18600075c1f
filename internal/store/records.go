package store

import (
	"context"
	"fmt"

	"github.com/spritesoftware/node-gtfs/internal/store/model"
	"gorm.io/gorm"
)

// Records writes and purges the imported rows of every GTFS table.
type Records interface {
	Insert(ctx context.Context, record model.Record) error
	InsertShapeStat(ctx context.Context, stat *model.ShapeStat) error
	DeleteByAgencyKey(ctx context.Context, table string, agencyKey string) (int64, error)
	Count(ctx context.Context, table string, agencyKey string) (int64, error)
}

type RecordStore struct {
	db *gorm.DB
}

// Make sure we conform to Records interface
var _ Records = (*RecordStore)(nil)

func NewRecordStore(db *gorm.DB) Records {
	return &RecordStore{db: db}
}

func (s *RecordStore) Insert(ctx context.Context, record model.Record) error {
	if err := getDB(ctx, s.db).Create(record).Error; err != nil {
		return fmt.Errorf("inserting into %s: %w", record.TableName(), err)
	}
	return nil
}

func (s *RecordStore) InsertShapeStat(ctx context.Context, stat *model.ShapeStat) error {
	if err := getDB(ctx, s.db).Create(stat).Error; err != nil {
		return fmt.Errorf("inserting shape stats for %q: %w", stat.ShapeID, err)
	}
	return nil
}

// DeleteByAgencyKey removes every row of table owned by agencyKey and
// returns how many were removed.
func (s *RecordStore) DeleteByAgencyKey(ctx context.Context, table string, agencyKey string) (int64, error) {
	m, ok := model.ModelFor(table)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	result := getDB(ctx, s.db).Where("agency_key = ?", agencyKey).Delete(m)
	if result.Error != nil {
		return 0, fmt.Errorf("purging %s: %w", table, result.Error)
	}
	return result.RowsAffected, nil
}

func (s *RecordStore) Count(ctx context.Context, table string, agencyKey string) (int64, error) {
	m, ok := model.ModelFor(table)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	var count int64
	if err := getDB(ctx, s.db).Model(m).Where("agency_key = ?", agencyKey).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return count, nil
}
