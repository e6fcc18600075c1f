package store

import (
	"context"

	"github.com/spritesoftware/node-gtfs/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Records() Records
	Agency() Agency
	ImportRun() ImportRun
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db        *gorm.DB
	records   Records
	agency    Agency
	importRun ImportRun
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:        db,
		records:   NewRecordStore(db),
		agency:    NewAgencyStore(db),
		importRun: NewImportRunStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Records() Records {
	return s.records
}

func (s *DataStore) Agency() Agency {
	return s.agency
}

func (s *DataStore) ImportRun() ImportRun {
	return s.importRun
}

// InitialMigration creates or updates every table from the models.
func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(model.AllModels()...)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
