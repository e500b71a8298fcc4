package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/protocol-governance/settings-service/application/commands"
	"agora/contexts/protocol-governance/settings-service/application/queries"
	"agora/contexts/protocol-governance/settings-service/domain/entities"
	httptransport "agora/contexts/protocol-governance/settings-service/transport/http"
)

type Handler struct {
	Commands commands.SettingsUseCase
	Queries  queries.SettingsQueryUseCase
	Logger   *slog.Logger
}

func (h Handler) GetSettingHandler(ctx context.Context, key string) (httptransport.SettingResponse, error) {
	setting, err := h.Queries.GetSetting(ctx, key)
	if err != nil {
		return httptransport.SettingResponse{}, err
	}
	return mapSetting(setting), nil
}

func (h Handler) ListSettingsHandler(ctx context.Context) (httptransport.SettingListResponse, error) {
	settings, err := h.Queries.ListSettings(ctx)
	if err != nil {
		return httptransport.SettingListResponse{}, err
	}
	items := make([]httptransport.SettingResponse, 0, len(settings))
	for _, setting := range settings {
		items = append(items, mapSetting(setting))
	}
	return httptransport.SettingListResponse{Items: items}, nil
}

// UpdateSettingHandler forwards to the gated update use case. Requests
// arriving over plain HTTP carry no execution authority and are rejected
// there.
func (h Handler) UpdateSettingHandler(ctx context.Context, key string, req httptransport.UpdateSettingRequest) (httptransport.SettingResponse, error) {
	setting, err := h.Commands.UpdateSetting(ctx, commands.UpdateSettingCommand{
		Key:   key,
		Value: req.Value,
	})
	if err != nil {
		return httptransport.SettingResponse{}, err
	}
	return mapSetting(setting), nil
}

func mapSetting(setting entities.Setting) httptransport.SettingResponse {
	return httptransport.SettingResponse{
		Key:         setting.Key,
		Value:       setting.Value,
		ValueType:   setting.ValueType,
		LastUpdated: setting.LastUpdated,
		Description: setting.Description,
	}
}
