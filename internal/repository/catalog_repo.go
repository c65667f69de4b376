package repository

import (
	"context"

	"github.com/Zain0205/travelin-be/internal/models"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	FindPackageByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TravelPackage, error)
	FindHotelByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Hotel, error)
	FindFlightByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Flight, error)
	DecrementQuota(ctx context.Context, tx *gorm.DB, packageID uint) (bool, error)
	RestoreQuota(ctx context.Context, tx *gorm.DB, packageID uint) error
}

type catalogRepository struct{}

func NewCatalogRepository() CatalogRepository {
	return &catalogRepository{}
}

func (r *catalogRepository) FindPackageByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TravelPackage, error) {
	var pkg models.TravelPackage
	if err := tx.WithContext(ctx).First(&pkg, id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *catalogRepository) FindHotelByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Hotel, error) {
	var hotel models.Hotel
	if err := tx.WithContext(ctx).First(&hotel, id).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *catalogRepository) FindFlightByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Flight, error) {
	var flight models.Flight
	if err := tx.WithContext(ctx).First(&flight, id).Error; err != nil {
		return nil, err
	}
	return &flight, nil
}

// DecrementQuota is a conditional single-statement decrement; the affected-row
// count decides whether a seat was actually taken. Two concurrent bookings on
// quota 1 therefore yield exactly one winner.
func (r *catalogRepository) DecrementQuota(ctx context.Context, tx *gorm.DB, packageID uint) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&models.TravelPackage{}).
		Where("id = ? AND quota > 0", packageID).
		UpdateColumn("quota", gorm.Expr("quota - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *catalogRepository) RestoreQuota(ctx context.Context, tx *gorm.DB, packageID uint) error {
	return tx.WithContext(ctx).
		Model(&models.TravelPackage{}).
		Where("id = ?", packageID).
		UpdateColumn("quota", gorm.Expr("quota + 1")).Error
}
