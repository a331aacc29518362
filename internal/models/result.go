package models

import "time"

// ErrorRecord captures one failed indexing batch for the run summary.
type ErrorRecord struct {
	BatchStart int    `json:"batch_start"`
	ChunkCount int    `json:"chunk_count"`
	Reason     string `json:"reason"`
}

// IndexingResult aggregates indexing outcomes for a single collection.
// One result is produced per collection per run; results from concurrent
// collection workers are merged only at the end of the stage.
type IndexingResult struct {
	Collection string        `json:"collection"`
	Attempted  int           `json:"attempted"`
	Succeeded  int           `json:"succeeded"`
	Failed     int           `json:"failed"`
	Errors     []ErrorRecord `json:"errors,omitempty"`
}

// StageTrace records one pipeline stage's input/output counts and duration.
type StageTrace struct {
	Stage    string        `json:"stage"`
	Input    int           `json:"input"`
	Output   int           `json:"output"`
	Duration time.Duration `json:"duration_ns"`
}

// RunSummary is the run output artifact: per-stage counts, per-collection
// indexing results, and stage traces. It is produced even when some
// collections partially failed.
type RunSummary struct {
	RunID       string                     `json:"run_id"`
	StartedAt   time.Time                  `json:"started_at"`
	FinishedAt  time.Time                  `json:"finished_at"`
	Documents   int                        `json:"documents"`
	Chunks      int                        `json:"chunks"`
	Collections map[string]*IndexingResult `json:"collections"`
	Traces      []StageTrace               `json:"traces"`
}

// TotalFailed returns the number of chunks that failed indexing across all collections.
func (s *RunSummary) TotalFailed() int {
	var n int
	for _, r := range s.Collections {
		n += r.Failed
	}
	return n
}

// TotalSucceeded returns the number of chunks indexed successfully across all collections.
func (s *RunSummary) TotalSucceeded() int {
	var n int
	for _, r := range s.Collections {
		n += r.Succeeded
	}
	return n
}
