// Package models defines client-side data models used by the docupload CLI.
package models

import "time"

// Run is one invocation of the upload command as kept in the local journal.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Policy     string
	Requested  int
	Uploaded   int
	Failed     int

	// Error is the message of the error that ended the run, empty on success.
	Error string

	Documents []RunDocument
}

// Missing is the number of requested files that produced no document.
func (r *Run) Missing() int { return r.Requested - r.Uploaded }

// Succeeded reports whether the run ended without error and stored every file.
func (r *Run) Succeeded() bool { return r.Error == "" && r.Missing() == 0 }

// RunDocument is a document stored during a run.
type RunDocument struct {
	RunID      string
	DocumentID string
	Name       string
}
