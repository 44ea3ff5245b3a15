package commands

import (
	"encoding/json"
	"time"

	"quorum/contexts/knowledge-base/voting-engine/ports"
)

func newVotingEnvelope(
	eventID string,
	eventType string,
	targetID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Command-side events are partitioned by target for stable ordering on
	// target-scoped consumers.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "voting-engine",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "target_id",
		PartitionKey:     targetID,
		Data:             payload,
	}, nil
}
