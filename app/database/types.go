package database

import (
	"time"
)

// Report is one persisted digest run.
type Report struct {
	ID             int64
	GeneratedAt    time.Time
	RawCount       int
	PublishedCount int
	HTML           string
}

// Stats summarizes the most recent digest run.
type Stats struct {
	ReportCount  int
	LatestAt     *time.Time
	ByCategory   map[string]int
	ByPriority   map[string]int
	ItemsInLatest int
}
