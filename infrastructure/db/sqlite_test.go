package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/prasetyowira/qrcodes/constant"
	"github.com/prasetyowira/qrcodes/domain/qrcode"
	"github.com/stretchr/testify/assert"
)

// testDBPath is the path to the test database file
const testDBPath = "test.db"

// Helper function to clean up test database
func cleanupTestDB(t *testing.T) {
	err := os.Remove(testDBPath)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("Failed to clean up test database: %v", err)
	}
}

// Helper function to create a test repository
func createTestRepository(t *testing.T) *SQLiteRepository {
	cleanupTestDB(t)

	repo, err := NewSQLiteRepository(testDBPath)
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}

	return repo
}

func testQRCode(shop string) *qrcode.QRCode {
	return &qrcode.QRCode{
		Shop:             shop,
		Title:            "Widget promo",
		ProductID:        "gid://shopify/Product/111",
		ProductVariantID: "gid://shopify/ProductVariant/987",
		ProductHandle:    "widget",
		Destination:      qrcode.DestinationProduct,
		Scans:            0,
		CreatedAt:        time.Now().Truncate(time.Second), // SQLite may not preserve nanoseconds
	}
}

func TestNewSQLiteRepository(t *testing.T) {
	// Cleanup after test
	defer cleanupTestDB(t)

	// Act
	repo, err := NewSQLiteRepository(testDBPath)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)

	// Clean up
	err = repo.Close()
	assert.NoError(t, err)
}

func TestNewSQLiteRepository_InvalidPath(t *testing.T) {
	// Act - Try to create a repository with an invalid path
	repo, err := NewSQLiteRepository("/invalid/path/db.sqlite")

	// Assert
	assert.Error(t, err)
	assert.Nil(t, repo)
}

func TestSQLiteRepository_Create(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	qr := testQRCode("s.myshopify.com")

	// Act
	err := repo.Create(ctx, qr)

	// Assert
	assert.NoError(t, err)
	assert.NotZero(t, qr.ID) // ID should be set by the repository
}

func TestSQLiteRepository_FindByID(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	qr := testQRCode("s.myshopify.com")
	assert.NoError(t, repo.Create(ctx, qr))

	// Act
	found, err := repo.FindByID(ctx, qr.ID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, qr.ID, found.ID)
	assert.Equal(t, qr.Shop, found.Shop)
	assert.Equal(t, qr.Title, found.Title)
	assert.Equal(t, qr.ProductVariantID, found.ProductVariantID)
	assert.Equal(t, qr.Destination, found.Destination)
	assert.Equal(t, uint(0), found.Scans)
}

func TestSQLiteRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	// Act
	found, err := repo.FindByID(context.Background(), 999999)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, constant.ErrQRCodeNotFound, err.Error())
	assert.Nil(t, found)
}

func TestSQLiteRepository_FindByShop_NewestFirstAndTenantScoped(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	first := testQRCode("s.myshopify.com")
	second := testQRCode("s.myshopify.com")
	other := testQRCode("other.myshopify.com")
	assert.NoError(t, repo.Create(ctx, first))
	assert.NoError(t, repo.Create(ctx, second))
	assert.NoError(t, repo.Create(ctx, other))

	// Act
	qrs, err := repo.FindByShop(ctx, "s.myshopify.com")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, qrs, 2)
	assert.Equal(t, second.ID, qrs[0].ID)
	assert.Equal(t, first.ID, qrs[1].ID)
}

func TestSQLiteRepository_Update_LeavesScansAndCreatedAt(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	qr := testQRCode("s.myshopify.com")
	assert.NoError(t, repo.Create(ctx, qr))
	assert.NoError(t, repo.IncrementScans(ctx, qr.ID))

	qr.Title = "Renamed"
	qr.Destination = qrcode.DestinationCart

	// Act
	err := repo.Update(ctx, qr)

	// Assert
	assert.NoError(t, err)
	found, err := repo.FindByID(ctx, qr.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", found.Title)
	assert.Equal(t, qrcode.DestinationCart, found.Destination)
	assert.Equal(t, uint(1), found.Scans)
	assert.Equal(t, qr.CreatedAt.Unix(), found.CreatedAt.Unix())
}

func TestSQLiteRepository_Update_NotFound(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	qr := testQRCode("s.myshopify.com")
	qr.ID = 999999

	// Act
	err := repo.Update(context.Background(), qr)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, constant.ErrQRCodeNotFound, err.Error())
}

func TestSQLiteRepository_Delete(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	qr := testQRCode("s.myshopify.com")
	assert.NoError(t, repo.Create(ctx, qr))

	// Act
	err := repo.Delete(ctx, qr.ID)

	// Assert
	assert.NoError(t, err)
	_, err = repo.FindByID(ctx, qr.ID)
	assert.Error(t, err)
}

func TestSQLiteRepository_Delete_MissingIsNoOp(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	// Act
	err := repo.Delete(context.Background(), 999999)

	// Assert
	assert.NoError(t, err)
}

func TestSQLiteRepository_IncrementScans(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	qr := testQRCode("s.myshopify.com")
	assert.NoError(t, repo.Create(ctx, qr))

	// Act
	for i := 0; i < 5; i++ {
		assert.NoError(t, repo.IncrementScans(ctx, qr.ID))
	}

	// Assert
	found, err := repo.FindByID(ctx, qr.ID)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), found.Scans)
}

func TestSQLiteRepository_IncrementScans_NotFound(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	// Act
	err := repo.IncrementScans(context.Background(), 999999)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, constant.ErrQRCodeNotFound, err.Error())
}

func TestSQLiteRepository_ShopForToken(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	session := SessionModel{ID: "tok-1", Shop: "s.myshopify.com"}
	assert.NoError(t, repo.db.Create(&session).Error)

	// Act
	shop, err := repo.ShopForToken(ctx, "tok-1")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "s.myshopify.com", shop)
}

func TestSQLiteRepository_ShopForToken_Expired(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	session := SessionModel{ID: "tok-2", Shop: "s.myshopify.com", Expires: &expired}
	assert.NoError(t, repo.db.Create(&session).Error)

	// Act
	shop, err := repo.ShopForToken(ctx, "tok-2")

	// Assert
	assert.Error(t, err)
	assert.Equal(t, constant.ErrSessionNotFound, err.Error())
	assert.Empty(t, shop)
}

func TestSQLiteRepository_ShopForToken_Unknown(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()

	// Act
	shop, err := repo.ShopForToken(context.Background(), "missing")

	// Assert
	assert.Error(t, err)
	assert.Empty(t, shop)
}

func TestSQLiteRepository_DeleteSessionsByShop(t *testing.T) {
	// Arrange
	repo := createTestRepository(t)
	defer cleanupTestDB(t)
	defer repo.Close()
	ctx := context.Background()

	assert.NoError(t, repo.db.Create(&SessionModel{ID: "tok-1", Shop: "s.myshopify.com"}).Error)
	assert.NoError(t, repo.db.Create(&SessionModel{ID: "tok-2", Shop: "s.myshopify.com"}).Error)
	assert.NoError(t, repo.db.Create(&SessionModel{ID: "tok-3", Shop: "other.myshopify.com"}).Error)

	// Act
	err := repo.DeleteSessionsByShop(ctx, "s.myshopify.com")

	// Assert - only the uninstalled shop's sessions are purged
	assert.NoError(t, err)
	_, err = repo.ShopForToken(ctx, "tok-1")
	assert.Error(t, err)
	_, err = repo.ShopForToken(ctx, "tok-2")
	assert.Error(t, err)
	shop, err := repo.ShopForToken(ctx, "tok-3")
	assert.NoError(t, err)
	assert.Equal(t, "other.myshopify.com", shop)
}
