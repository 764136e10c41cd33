package store

import (
	"time"

	"github.com/hailscout/hailscout/internal/models"
)

// RecordQualifyingStorm appends one qualifying storm to the rolling history.
// Callers treat this as fire-and-forget: a failure here must not block the
// notification path.
func (s *Store) RecordQualifyingStorm(storm models.QualifyingStorm, region string, recordedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO storm_history (
			region, event_type, headline, area_description,
			hail_inches, wind_mph, severity_score,
			is_hail, is_wind, is_hurricane, total_market_value, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		region, storm.EventType, storm.Headline, storm.AreaDescription,
		storm.HailInches, storm.WindMph, storm.SeverityScore,
		storm.IsHail, storm.IsWind, storm.IsHurricane,
		storm.DamageEstimate.TotalMarketValue, recordedAt,
	)
	return err
}

// StormHistory returns the recorded storms for a region within the window,
// newest first.
func (s *Store) StormHistory(region string, since time.Time) ([]models.StormRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, region, event_type, headline, area_description,
		       hail_inches, wind_mph, severity_score,
		       is_hail, is_wind, is_hurricane, total_market_value, recorded_at
		FROM storm_history
		WHERE region = ? AND recorded_at >= ?
		ORDER BY recorded_at DESC
	`, region, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.StormRecord
	for rows.Next() {
		var r models.StormRecord
		if err := rows.Scan(
			&r.ID, &r.Region, &r.EventType, &r.Headline, &r.AreaDescription,
			&r.HailInches, &r.WindMph, &r.SeverityScore,
			&r.IsHail, &r.IsWind, &r.IsHurricane, &r.TotalMarketValue, &r.RecordedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// PruneHistory deletes records older than the cutoff and returns the count.
func (s *Store) PruneHistory(olderThan time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM storm_history WHERE recorded_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
