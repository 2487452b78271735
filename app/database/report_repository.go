package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/partnerai/intel-digest/app/intel"
)

var _ ReportRepository = (*ReportRepositoryImpl)(nil)

type ReportRepositoryImpl struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepositoryImpl {
	return &ReportRepositoryImpl{db: db}
}

// SaveReport stores one digest run with its ranked items in a single
// transaction.
func (r *ReportRepositoryImpl) SaveReport(generatedAt time.Time, rawCount int, html string, items []intel.ScoredItem) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO reports (generated_at, raw_count, published_count, html)
		VALUES (?, ?, ?, ?)
	`, generatedAt.UTC(), rawCount, len(items), html)
	if err != nil {
		return 0, fmt.Errorf("failed to store report: %w", err)
	}

	reportID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report ID: %w", err)
	}

	for position, item := range items {
		_, err := tx.Exec(`
			INSERT INTO report_items (
				report_id, position, title, url, feed_source, category,
				sector, opportunity_type, funding_amount, key_signal,
				score, priority, published_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, reportID, position, item.Title, item.URL, item.FeedSource, item.Category,
			item.Sector, item.OpportunityType, item.FundingAmount, item.KeySignal,
			item.Score, item.Priority, item.PublishedAt.UTC())
		if err != nil {
			return 0, fmt.Errorf("failed to store report item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit report: %w", err)
	}

	return reportID, nil
}

// GetLatestReport returns the most recent digest run, or nil when no run
// has been stored yet.
func (r *ReportRepositoryImpl) GetLatestReport() (*Report, error) {
	var report Report
	err := r.db.QueryRow(`
		SELECT id, generated_at, raw_count, published_count, html
		FROM reports
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`).Scan(&report.ID, &report.GeneratedAt, &report.RawCount, &report.PublishedCount, &report.HTML)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}

	return &report, nil
}

func (r *ReportRepositoryImpl) ListReports(limit int) ([]Report, error) {
	rows, err := r.db.Query(`
		SELECT id, generated_at, raw_count, published_count, ''
		FROM reports
		ORDER BY generated_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var report Report
		if err := rows.Scan(&report.ID, &report.GeneratedAt, &report.RawCount,
			&report.PublishedCount, &report.HTML); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// GetStats aggregates counts over the most recent run.
func (r *ReportRepositoryImpl) GetStats() (*Stats, error) {
	stats := &Stats{
		ByCategory: make(map[string]int),
		ByPriority: make(map[string]int),
	}

	if err := r.db.QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&stats.ReportCount); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	if stats.ReportCount == 0 {
		return stats, nil
	}

	latest, err := r.GetLatestReport()
	if err != nil {
		return nil, err
	}
	stats.LatestAt = &latest.GeneratedAt
	stats.ItemsInLatest = latest.PublishedCount

	rows, err := r.db.Query(`
		SELECT category, priority, COUNT(*)
		FROM report_items
		WHERE report_id = ?
		GROUP BY category, priority
	`, latest.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, priority string
		var count int
		if err := rows.Scan(&category, &priority, &count); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		stats.ByCategory[category] += count
		stats.ByPriority[priority] += count
	}

	return stats, rows.Err()
}
