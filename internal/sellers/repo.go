package sellers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/merchpulse/merchpulse-backend/pkg/db/models"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
	"gorm.io/gorm"
)

// Repository provides persistence for seller profiles and anomalies.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps the shared GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSeller(ctx context.Context, seller *models.SellerProfile) error {
	if err := r.db.WithContext(ctx).Create(seller).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "seller already exists for merchant")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating seller profile")
	}
	return nil
}

func (r *Repository) FindSellerByMerchantID(ctx context.Context, merchantID string) (*models.SellerProfile, error) {
	var seller models.SellerProfile
	err := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller profile not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading seller profile")
	}
	return &seller, nil
}

func (r *Repository) ListSellers(ctx context.Context) ([]models.SellerProfile, error) {
	var sellers []models.SellerProfile
	if err := r.db.WithContext(ctx).Order("shop_name asc").Find(&sellers).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing seller profiles")
	}
	return sellers, nil
}

func (r *Repository) CreateAnomaly(ctx context.Context, anomaly *models.Anomaly) error {
	if err := r.db.WithContext(ctx).Create(anomaly).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating anomaly")
	}
	return nil
}

func (r *Repository) ListAnomalies(ctx context.Context, sellerID uuid.UUID, unresolvedOnly bool) ([]models.Anomaly, error) {
	query := r.db.WithContext(ctx).Where("seller_id = ?", sellerID)
	if unresolvedOnly {
		query = query.Where("is_resolved = ?", false)
	}
	var anomalies []models.Anomaly
	if err := query.Order("created_at desc").Find(&anomalies).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing anomalies")
	}
	return anomalies, nil
}

func (r *Repository) ResolveAnomaly(ctx context.Context, anomalyID uuid.UUID) (*models.Anomaly, error) {
	var anomaly models.Anomaly
	err := r.db.WithContext(ctx).First(&anomaly, "id = ?", anomalyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "anomaly not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading anomaly")
	}
	if err := r.db.WithContext(ctx).Model(&anomaly).Update("is_resolved", true).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving anomaly")
	}
	anomaly.IsResolved = true
	return &anomaly, nil
}
