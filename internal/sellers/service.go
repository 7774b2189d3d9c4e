package sellers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/merchpulse/merchpulse-backend/pkg/db/models"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
)

var validSeverities = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
}

var validAnomalyTypes = map[string]struct{}{
	"sales_drop":  {},
	"stock_low":   {},
	"rating_drop": {},
	"order_issue": {},
}

// CreateSellerInput holds the validated payload to register a seller profile.
type CreateSellerInput struct {
	MerchantID string
	ShopName   string
	ShopRating float64
}

// CreateAnomalyInput holds the validated payload to raise an anomaly.
type CreateAnomalyInput struct {
	SellerID    uuid.UUID
	Type        string
	Description string
	Severity    string
}

// Service exposes seller profile and anomaly management.
type Service struct {
	repo *Repository
}

// NewService constructs a seller service.
func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("seller repository required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) CreateSeller(ctx context.Context, input CreateSellerInput) (*models.SellerProfile, error) {
	if strings.TrimSpace(input.MerchantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant_id is required")
	}
	if strings.TrimSpace(input.ShopName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop_name is required")
	}

	seller := &models.SellerProfile{
		ID:         uuid.New(),
		MerchantID: input.MerchantID,
		ShopName:   input.ShopName,
		ShopRating: input.ShopRating,
	}
	if err := s.repo.CreateSeller(ctx, seller); err != nil {
		return nil, err
	}
	return seller, nil
}

func (s *Service) GetSeller(ctx context.Context, merchantID string) (*models.SellerProfile, error) {
	return s.repo.FindSellerByMerchantID(ctx, merchantID)
}

func (s *Service) ListSellers(ctx context.Context) ([]models.SellerProfile, error) {
	return s.repo.ListSellers(ctx)
}

func (s *Service) CreateAnomaly(ctx context.Context, input CreateAnomalyInput) (*models.Anomaly, error) {
	if _, ok := validAnomalyTypes[input.Type]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown anomaly type").
			WithDetails(map[string]any{"type": input.Type})
	}
	if _, ok := validSeverities[input.Severity]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown severity").
			WithDetails(map[string]any{"severity": input.Severity})
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}

	anomaly := &models.Anomaly{
		ID:          uuid.New(),
		SellerID:    input.SellerID,
		Type:        input.Type,
		Description: input.Description,
		Severity:    input.Severity,
	}
	if err := s.repo.CreateAnomaly(ctx, anomaly); err != nil {
		return nil, err
	}
	return anomaly, nil
}

func (s *Service) ListAnomalies(ctx context.Context, sellerID uuid.UUID, unresolvedOnly bool) ([]models.Anomaly, error) {
	return s.repo.ListAnomalies(ctx, sellerID, unresolvedOnly)
}

func (s *Service) ResolveAnomaly(ctx context.Context, anomalyID uuid.UUID) (*models.Anomaly, error) {
	return s.repo.ResolveAnomaly(ctx, anomalyID)
}
