package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SettingResponse struct {
	Key         string `json:"key"`
	Value       uint64 `json:"value"`
	ValueType   string `json:"value_type"`
	LastUpdated uint64 `json:"last_updated"`
	Description string `json:"description,omitempty"`
}

type SettingListResponse struct {
	Items []SettingResponse `json:"items"`
}

type UpdateSettingRequest struct {
	Value uint64 `json:"value"`
}
