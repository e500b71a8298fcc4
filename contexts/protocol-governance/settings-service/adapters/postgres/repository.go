package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agora/contexts/protocol-governance/settings-service/domain/entities"
	domainerrors "agora/contexts/protocol-governance/settings-service/domain/errors"
)

// Repository persists the parameter registry in PostgreSQL.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&settingModel{})
}

func (r *Repository) GetSetting(ctx context.Context, key string) (entities.Setting, error) {
	var model settingModel
	err := r.db.WithContext(ctx).First(&model, "key = ?", strings.TrimSpace(key)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Setting{}, domainerrors.ErrSettingNotFound
	}
	if err != nil {
		r.logError(ctx, "setting_get_failed", err)
		return entities.Setting{}, err
	}
	return toSettingEntity(model), nil
}

func (r *Repository) ListSettings(ctx context.Context) ([]entities.Setting, error) {
	var models []settingModel
	if err := r.db.WithContext(ctx).Order("key asc").Find(&models).Error; err != nil {
		r.logError(ctx, "setting_list_failed", err)
		return nil, err
	}
	items := make([]entities.Setting, 0, len(models))
	for _, model := range models {
		items = append(items, toSettingEntity(model))
	}
	return items, nil
}

func (r *Repository) SaveSetting(ctx context.Context, setting entities.Setting) error {
	setting.Key = strings.TrimSpace(setting.Key)
	if setting.Key == "" {
		return domainerrors.ErrInvalidKey
	}
	model := toSettingModel(setting)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "last_updated", "description"}),
	}).Create(&model).Error
	if err != nil {
		r.logError(ctx, "setting_save_failed", err)
	}
	return err
}

func (r *Repository) logError(ctx context.Context, event string, err error) {
	r.logger.ErrorContext(ctx, "settings repository error",
		"event", event,
		"module", "protocol-governance/settings-service",
		"layer", "adapters/postgres",
		"error", err.Error(),
	)
}
