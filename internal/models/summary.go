package models

import "time"

// RunSummary is the end-of-run report handed to loggers.
type RunSummary struct {
	RunID        string
	Mode         string
	Search       SearchRequest
	Source       string // Database that produced the result; empty when none did
	Paths        int
	LinkTarget   string
	LinksCreated int
	LinksFailed  int
	Archive      string
	StatsFile    string
	Duration     time.Duration
}
