package events

import "time"

// Envelope is the shared event shape used in Agora.
// Align fields with repository canonical event contract.
type Envelope struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	SourceService    string    `json:"source_service"`
	OccurredAt       time.Time `json:"occurred_at"`
	TraceID          string    `json:"trace_id"`
	SchemaVersion    int       `json:"schema_version"`
	PartitionKeyPath string    `json:"partition_key_path"`
	PartitionKey     string    `json:"partition_key"`
	Data             []byte    `json:"data"`
}
