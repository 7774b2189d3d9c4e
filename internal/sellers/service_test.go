package sellers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/merchpulse/merchpulse-backend/pkg/db/models"
	pkgerrors "github.com/merchpulse/merchpulse-backend/pkg/errors"
)

func testService(t *testing.T) *Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sellers.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.SellerProfile{}, &models.Anomaly{}))

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func TestCreateAndGetSeller(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	created, err := svc.CreateSeller(ctx, CreateSellerInput{
		MerchantID: "m1",
		ShopName:   "Burger Barn",
		ShopRating: 4.5,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := svc.GetSeller(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.Equal(t, "Burger Barn", found.ShopName)
}

func TestCreateSellerValidation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	_, err := svc.CreateSeller(ctx, CreateSellerInput{ShopName: "No Merchant"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.CreateSeller(ctx, CreateSellerInput{MerchantID: "m1"})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateSellerDuplicateMerchant(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	input := CreateSellerInput{MerchantID: "m1", ShopName: "Burger Barn"}
	_, err := svc.CreateSeller(ctx, input)
	require.NoError(t, err)

	_, err = svc.CreateSeller(ctx, input)
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestGetSellerNotFound(t *testing.T) {
	svc := testService(t)
	_, err := svc.GetSeller(context.Background(), "missing")
	require.True(t, pkgerrors.IsNotFound(err), "expected not-found, got %v", err)
}

func TestAnomalyLifecycle(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	seller, err := svc.CreateSeller(ctx, CreateSellerInput{MerchantID: "m1", ShopName: "Burger Barn"})
	require.NoError(t, err)

	anomaly, err := svc.CreateAnomaly(ctx, CreateAnomalyInput{
		SellerID:    seller.ID,
		Type:        "sales_drop",
		Description: "sales down 40% week over week",
		Severity:    "high",
	})
	require.NoError(t, err)

	unresolved, err := svc.ListAnomalies(ctx, seller.ID, true)
	require.NoError(t, err)
	require.Len(t, unresolved, 1)
	require.Equal(t, anomaly.ID, unresolved[0].ID)

	resolved, err := svc.ResolveAnomaly(ctx, anomaly.ID)
	require.NoError(t, err)
	require.True(t, resolved.IsResolved)

	unresolved, err = svc.ListAnomalies(ctx, seller.ID, true)
	require.NoError(t, err)
	require.Empty(t, unresolved)

	all, err := svc.ListAnomalies(ctx, seller.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCreateAnomalyValidation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	cases := []CreateAnomalyInput{
		{SellerID: uuid.New(), Type: "weather", Description: "d", Severity: "high"},
		{SellerID: uuid.New(), Type: "sales_drop", Description: "d", Severity: "urgent"},
		{SellerID: uuid.New(), Type: "sales_drop", Description: "   ", Severity: "low"},
	}
	for _, input := range cases {
		_, err := svc.CreateAnomaly(ctx, input)
		requireCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestResolveAnomalyNotFound(t *testing.T) {
	svc := testService(t)
	_, err := svc.ResolveAnomaly(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsNotFound(err), "expected not-found, got %v", err)
}
