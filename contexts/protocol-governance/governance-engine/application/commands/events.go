package commands

import (
	"encoding/json"
	"strconv"
	"time"

	"agora/contexts/protocol-governance/governance-engine/ports"
)

func newGovernanceEnvelope(
	eventID string,
	eventType string,
	motionID uint64,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Command-side events are partitioned by motion for stable ordering on
	// motion-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "governance-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "motion_id",
		PartitionKey:     strconv.FormatUint(motionID, 10),
		Data:             payload,
	}, nil
}
