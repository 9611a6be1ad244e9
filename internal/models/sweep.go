package models

import "time"

type TriggerKind string

const (
	TriggerScheduled TriggerKind = "scheduled"
	TriggerManual    TriggerKind = "manual"
)

// SweepResult summarizes one full conversion pass over all known devices.
type SweepResult struct {
	RunID          string      `json:"run_id"`
	Trigger        TriggerKind `json:"trigger"`
	StartedAt      time.Time   `json:"started_at"`
	FinishedAt     time.Time   `json:"finished_at"`
	Devices        int         `json:"devices"`
	Scanned        int         `json:"scanned"`
	Converted      int         `json:"converted"`
	Failed         int         `json:"failed"`
	SkippedDevices int         `json:"skipped_devices"`
	Fatal          bool        `json:"fatal,omitempty"`
}

func (r *SweepResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
