package postgres_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"agora/contexts/protocol-governance/settings-service/adapters/postgres"
	"agora/contexts/protocol-governance/settings-service/domain/entities"
	domainerrors "agora/contexts/protocol-governance/settings-service/domain/errors"
)

func newTestRepository(t *testing.T) *postgres.Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := postgres.NewRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func TestSettingUpsertAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetSetting(ctx, "quorum-bp")
	require.ErrorIs(t, err, domainerrors.ErrSettingNotFound)

	setting := entities.Setting{
		Key:         "quorum-bp",
		Value:       1000,
		ValueType:   entities.ValueTypeUint,
		Description: "participation floor",
	}
	require.NoError(t, repo.SaveSetting(ctx, setting))

	stored, err := repo.GetSetting(ctx, "quorum-bp")
	require.NoError(t, err)
	require.Equal(t, uint64(1000), stored.Value)

	setting.Value = 2000
	setting.LastUpdated = 4200
	require.NoError(t, repo.SaveSetting(ctx, setting))

	stored, err = repo.GetSetting(ctx, "quorum-bp")
	require.NoError(t, err)
	require.Equal(t, uint64(2000), stored.Value)
	require.Equal(t, uint64(4200), stored.LastUpdated)
	require.Equal(t, "participation floor", stored.Description)
}

func TestSettingListOrderedByKey(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, setting := range entities.Defaults() {
		require.NoError(t, repo.SaveSetting(ctx, setting))
	}

	settings, err := repo.ListSettings(ctx)
	require.NoError(t, err)
	require.Len(t, settings, len(entities.Defaults()))
	for i := 1; i < len(settings); i++ {
		require.Less(t, settings[i-1].Key, settings[i].Key)
	}
}

func TestSettingRejectsBlankKey(t *testing.T) {
	repo := newTestRepository(t)
	require.ErrorIs(t, repo.SaveSetting(context.Background(), entities.Setting{Key: "  "}), domainerrors.ErrInvalidKey)
}
