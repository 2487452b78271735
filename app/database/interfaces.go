package database

import (
	"time"

	"github.com/partnerai/intel-digest/app/intel"
)

type ReportRepository interface {
	SaveReport(generatedAt time.Time, rawCount int, html string, items []intel.ScoredItem) (int64, error)
	GetLatestReport() (*Report, error)
	ListReports(limit int) ([]Report, error)
	GetStats() (*Stats, error)
}
