package repository

import (
	"testing"

	"github.com/frecha/iotech-storefront/internal/app/model"
	"github.com/frecha/iotech-storefront/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSnapshotTest(t *testing.T) (*gorm.DB, CartSnapshotRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	return testDB, NewCartSnapshotRepository(testDB)
}

func TestCartSnapshotRepository_SaveAndLoad(t *testing.T) {
	testDB, repo := setupSnapshotTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{
		Lines: []model.LineItem{
			{ProductID: 3, Name: "MTN 10GB Bundle", UnitPrice: 49.99, Quantity: 2, Category: "bundle"},
			{ProductID: 1, Name: "AC1200 Router", UnitPrice: 350, Quantity: 1, Category: "router"},
			{ProductID: 3, Name: "MTN 10GB Bundle (Promo)", UnitPrice: 39.9, Quantity: 1, Category: "electronic"},
		},
	}

	err := repo.Save("sess-1", cart)
	require.NoError(t, err)

	loaded, err := repo.Load("sess-1")
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 3)

	// Line order and exact prices survive the round trip.
	for i, line := range cart.Lines {
		assert.Equal(t, line.ProductID, loaded.Lines[i].ProductID)
		assert.Equal(t, line.Name, loaded.Lines[i].Name)
		assert.Equal(t, line.UnitPrice, loaded.Lines[i].UnitPrice)
		assert.Equal(t, line.Quantity, loaded.Lines[i].Quantity)
		assert.Equal(t, line.Category, loaded.Lines[i].Category)
	}
}

func TestCartSnapshotRepository_SaveOverwrites(t *testing.T) {
	testDB, repo := setupSnapshotTest(t)
	defer db.CleanupTestDB(testDB)

	first := &model.Cart{
		Lines: []model.LineItem{
			{ProductID: 1, Name: "AC1200 Router", UnitPrice: 350, Quantity: 1, Category: "router"},
		},
	}
	require.NoError(t, repo.Save("sess-1", first))

	second := &model.Cart{
		Lines: []model.LineItem{
			{ProductID: 2, Name: "Smart Camera", UnitPrice: 120.5, Quantity: 3, Category: "electronic"},
		},
	}
	require.NoError(t, repo.Save("sess-1", second))

	loaded, err := repo.Load("sess-1")
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	assert.Equal(t, uint(2), loaded.Lines[0].ProductID)
	assert.Equal(t, 120.5, loaded.Lines[0].UnitPrice)
}

func TestCartSnapshotRepository_SaveEmptyCart(t *testing.T) {
	testDB, repo := setupSnapshotTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Save("sess-1", &model.Cart{}))

	loaded, err := repo.Load("sess-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Lines, 0)
}

func TestCartSnapshotRepository_LoadMissing(t *testing.T) {
	testDB, repo := setupSnapshotTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.Load("no-such-session")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestCartSnapshotRepository_Delete(t *testing.T) {
	testDB, repo := setupSnapshotTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{
		Lines: []model.LineItem{
			{ProductID: 1, Name: "AC1200 Router", UnitPrice: 350, Quantity: 1, Category: "router"},
		},
	}
	require.NoError(t, repo.Save("sess-1", cart))

	err := repo.Delete("sess-1")
	assert.NoError(t, err)

	_, err = repo.Load("sess-1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestCartSnapshotRepository_DeleteMissingIsNoop(t *testing.T) {
	testDB, repo := setupSnapshotTest(t)
	defer db.CleanupTestDB(testDB)

	assert.NoError(t, repo.Delete("no-such-session"))
}
