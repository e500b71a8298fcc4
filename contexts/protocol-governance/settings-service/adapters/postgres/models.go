package postgres

import (
	"agora/contexts/protocol-governance/settings-service/domain/entities"
)

type settingModel struct {
	Key         string `gorm:"column:key;primaryKey"`
	Value       uint64 `gorm:"column:value;not null"`
	ValueType   string `gorm:"column:value_type;not null"`
	LastUpdated uint64 `gorm:"column:last_updated;not null"`
	Description string `gorm:"column:description"`
}

func (settingModel) TableName() string { return "governance_settings" }

func toSettingModel(setting entities.Setting) settingModel {
	return settingModel{
		Key:         setting.Key,
		Value:       setting.Value,
		ValueType:   setting.ValueType,
		LastUpdated: setting.LastUpdated,
		Description: setting.Description,
	}
}

func toSettingEntity(model settingModel) entities.Setting {
	return entities.Setting{
		Key:         model.Key,
		Value:       model.Value,
		ValueType:   model.ValueType,
		LastUpdated: model.LastUpdated,
		Description: model.Description,
	}
}
