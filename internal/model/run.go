package model

import "time"

// Version identifies the report schema carried by stored runs.
const Version = "1.0"

// Run wraps one scan report with identity and provenance, the shape that is
// persisted and served by the API.
type Run struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	Source        string    `json:"source,omitempty"`
	EngineVersion string    `json:"engine_version,omitempty"`
	Report        Report    `json:"report"`
}
