package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spritesoftware/node-gtfs/internal/store/model"
	"gorm.io/gorm"
)

type ImportRun interface {
	Create(ctx context.Context, run model.ImportRun) (*model.ImportRun, error)
	Update(ctx context.Context, run model.ImportRun) (*model.ImportRun, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ImportRun, error)
	List(ctx context.Context, filter *ImportRunQueryFilter, opts *ImportRunQueryOptions) (model.ImportRunList, error)
}

type ImportRunStore struct {
	db *gorm.DB
}

// Make sure we conform to ImportRun interface
var _ ImportRun = (*ImportRunStore)(nil)

func NewImportRunStore(db *gorm.DB) ImportRun {
	return &ImportRunStore{db: db}
}

func (s *ImportRunStore) Create(ctx context.Context, run model.ImportRun) (*model.ImportRun, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if err := getDB(ctx, s.db).Create(&run).Error; err != nil {
		return nil, fmt.Errorf("creating import run: %w", err)
	}
	return &run, nil
}

func (s *ImportRunStore) Update(ctx context.Context, run model.ImportRun) (*model.ImportRun, error) {
	result := getDB(ctx, s.db).Model(&run).Select("*").Updates(&run)
	if result.Error != nil {
		return nil, fmt.Errorf("updating import run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &run, nil
}

func (s *ImportRunStore) Get(ctx context.Context, id uuid.UUID) (*model.ImportRun, error) {
	var run model.ImportRun
	if err := getDB(ctx, s.db).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying import run: %w", err)
	}
	return &run, nil
}

func (s *ImportRunStore) List(ctx context.Context, filter *ImportRunQueryFilter, opts *ImportRunQueryOptions) (model.ImportRunList, error) {
	var runs model.ImportRunList
	tx := getDB(ctx, s.db).Model(&runs)

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing import runs: %w", err)
	}
	return runs, nil
}
