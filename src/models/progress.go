package models

import "time"

// Progress records which sections are done or skipped and where the user is,
// for one pass through one flow. The session state machine owns the live
// value; the autosaver persists read-only snapshots of it.
type Progress struct {
	CompletedSections []string   `bson:"completedSections" json:"completedSections"`
	SkippedSections   []string   `bson:"skippedSections" json:"skippedSections"`
	CurrentSectionID  string     `bson:"currentSectionId" json:"currentSectionId"`
	LastUpdated       time.Time  `bson:"lastUpdated" json:"lastUpdated"`
	CompletedAt       *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// ProgressSummary is the completed/total/percentage tuple shown on the
// progress bar.
type ProgressSummary struct {
	CompletedQuestions int     `json:"completedQuestions"`
	TotalQuestions     int     `json:"totalQuestions"`
	Percentage         float64 `json:"percentage"`
}

// SaveStatus is the autosave indicator exposed to the UI.
type SaveStatus string

const (
	SaveIdle   SaveStatus = "idle"
	SaveSaving SaveStatus = "saving"
	SaveSaved  SaveStatus = "saved"
	SaveError  SaveStatus = "error"
)
