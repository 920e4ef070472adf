package gormrepo

import (
	"context"
	"os"
	"testing"
	"time"

	"petworld/internal/app/ports"
	"petworld/internal/domain/pet"
	"petworld/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:", nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	applied, err := ApplyMigrations(context.Background(), db, migrations.FS)
	require.NoError(t, err)
	require.Equal(t, []string{"0001_init"}, applied)
	return db
}

func strPtr(s string) *string { return &s }

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	applied, err := ApplyMigrations(context.Background(), db, migrations.FS)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x INT);\n\nCREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, got)
}

func TestUserRepoGetOrCreate(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))
	ctx := context.Background()

	a, err := repo.GetOrCreateByWallet(ctx, "GABC")
	require.NoError(t, err)
	b, err := repo.GetOrCreateByWallet(ctx, " GABC")
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "GABC", b.WalletAddress)

	found, err := repo.FindByWallet(ctx, "GABC")
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	_, err = repo.FindByWallet(ctx, "GNONE")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMetadataRepoLifecycle(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	repo := NewMetadataRepo(db)
	ctx := context.Background()

	u, err := users.GetOrCreateByWallet(ctx, "GOWNER")
	require.NoError(t, err)

	stage := 2
	first, err := repo.Upsert(ctx, pet.Metadata{
		UserID:         u.ID,
		PetID:          7,
		PetName:        "Rex",
		CreatureType:   pet.CreatureDino,
		EvolutionStage: &stage,
		ImageURL:       strPtr("img.png"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Nil(t, first.HappyURL)

	second, err := repo.Upsert(ctx, pet.Metadata{
		UserID:         u.ID,
		PetID:          7,
		PetName:        "Rex",
		CreatureType:   pet.CreatureDino,
		EvolutionStage: &stage,
		ImageURL:       strPtr("img2.png"),
		HappyURL:       strPtr("h.mp4"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "img2.png", *second.ImageURL)
	assert.Equal(t, "h.mp4", *second.HappyURL)
	require.NotNil(t, second.EvolutionStage)
	assert.Equal(t, 2, *second.EvolutionStage)

	updated, err := repo.Update(ctx, u.ID, 7, pet.MetadataPatch{PetName: strPtr("Rexy"), SadURL: strPtr("s.mp4")})
	require.NoError(t, err)
	assert.Equal(t, "Rexy", updated.PetName)
	assert.Equal(t, "s.mp4", *updated.SadURL)
	assert.Equal(t, "h.mp4", *updated.HappyURL)

	require.NoError(t, repo.Delete(ctx, u.ID, 7))
	_, err = repo.Get(ctx, u.ID, 7)
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, u.ID, 7), ports.ErrNotFound)
	_, err = repo.Update(ctx, u.ID, 7, pet.MetadataPatch{PetName: strPtr("x")})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestMetadataRepoListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	repo := NewMetadataRepo(db)
	ctx := context.Background()
	u, err := users.GetOrCreateByWallet(ctx, "GOWNER")
	require.NoError(t, err)

	for _, id := range []uint64{4, 9, 1} {
		_, err := repo.Upsert(ctx, pet.Metadata{UserID: u.ID, PetID: id})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	list, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint64{1, 9, 4}, []uint64{list[0].PetID, list[1].PetID, list[2].PetID})

	none, err := repo.ListByUser(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMetadataRepoRejectsUnknownUser(t *testing.T) {
	repo := NewMetadataRepo(openTestDB(t))

	_, err := repo.Upsert(context.Background(), pet.Metadata{UserID: "missing", PetID: 1})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTxManagerRollsBack(t *testing.T) {
	db := openTestDB(t)
	tx := NewTxManager(db)
	users := NewUserRepo(db)
	repo := NewMetadataRepo(db)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := users.GetOrCreateByWallet(ctx, "GROLLBACK")
		if err != nil {
			return err
		}
		if _, err := repo.Upsert(ctx, pet.Metadata{UserID: u.ID, PetID: 3}); err != nil {
			return err
		}
		return ports.ErrConflict
	})
	require.ErrorIs(t, err, ports.ErrConflict)

	var count int64
	require.NoError(t, db.Table("users").Where("wallet_address = ?", "GROLLBACK").Count(&count).Error)
	assert.Zero(t, count)
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("PETWORLD_DB_DSN")
	if dsn == "" {
		t.Skip("PETWORLD_DB_DSN is required for integration test")
	}
	return dsn
}

func TestPostgresMigrationsAndUpsert(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if _, err := ApplyMigrations(ctx, db, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	wallet := "it-metadata-upsert"
	_ = db.Exec("DELETE FROM users WHERE wallet_address = ?", wallet).Error

	u, err := NewUserRepo(db).GetOrCreateByWallet(ctx, wallet)
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	repo := NewMetadataRepo(db)
	if _, err := repo.Upsert(ctx, pet.Metadata{UserID: u.ID, PetID: 1, PetName: "A"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.Upsert(ctx, pet.Metadata{UserID: u.ID, PetID: 1, PetName: "B"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if got.PetName != "B" {
		t.Fatalf("expected updated name, got=%s", got.PetName)
	}
}
