package model

import "time"

// HashValue is a SHA-256 hash stored as hex string.
type HashValue string

// AuditRecord is a single line in the operation journal (JSONL format).
type AuditRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	EventType  Operation      `json:"event_type"`
	ZoneName   string         `json:"zone_name"`
	User       string         `json:"user,omitempty"`
	Argv       [][]string     `json:"argv,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	PrevHash   HashValue      `json:"prev_hash"`
	RecordHash HashValue      `json:"record_hash"`
}
