package store

import (
	"context"
	"fmt"

	"github.com/spritesoftware/node-gtfs/internal/store/model"
	"gorm.io/gorm"
)

type Agency interface {
	List(ctx context.Context, agencyKey string) ([]model.Agency, error)
	UpdateBounds(ctx context.Context, agencyKey string, bounds model.Bounds, center model.Location) (int64, error)
}

type AgencyStore struct {
	db *gorm.DB
}

// Make sure we conform to Agency interface
var _ Agency = (*AgencyStore)(nil)

func NewAgencyStore(db *gorm.DB) Agency {
	return &AgencyStore{db: db}
}

func (s *AgencyStore) List(ctx context.Context, agencyKey string) ([]model.Agency, error) {
	var agencies []model.Agency
	if err := getDB(ctx, s.db).Where("agency_key = ?", agencyKey).Order("id").Find(&agencies).Error; err != nil {
		return nil, fmt.Errorf("listing agencies: %w", err)
	}
	return agencies, nil
}

// UpdateBounds sets the bounds and center of every agency row imported
// under agencyKey. It returns the number of rows updated.
func (s *AgencyStore) UpdateBounds(ctx context.Context, agencyKey string, bounds model.Bounds, center model.Location) (int64, error) {
	result := getDB(ctx, s.db).Model(&model.Agency{}).
		Where("agency_key = ?", agencyKey).
		Updates(map[string]interface{}{
			"agency_bounds": bounds,
			"agency_center": center,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("updating agency bounds: %w", result.Error)
	}
	return result.RowsAffected, nil
}
