package store

import (
	"fmt"

	"github.com/hailscout/hailscout/internal/models"
)

// UpsertSubscriber adds a recipient for a region, reactivating an existing
// row for the same (email, region) pair.
func (s *Store) UpsertSubscriber(email, region string) error {
	_, err := s.db.Exec(`
		INSERT INTO subscribers (email, region, active)
		VALUES (?, ?, TRUE)
		ON CONFLICT(email, region) DO UPDATE SET active = TRUE
	`, email, region)
	return err
}

// DeactivateSubscriber soft-deletes a recipient so re-subscribing preserves
// the original row.
func (s *Store) DeactivateSubscriber(email, region string) error {
	res, err := s.db.Exec(`
		UPDATE subscribers SET active = FALSE WHERE email = ? AND region = ?
	`, email, region)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no subscription for %s in %s", email, region)
	}
	return nil
}

// ListRegionsWithSubscribers returns the regions that have at least one
// active recipient, in sorted order. These are the regions a check cycle
// visits.
func (s *Store) ListRegionsWithSubscribers() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT region FROM subscribers WHERE active = TRUE ORDER BY region
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// ListRecipients returns the active recipient addresses for a region.
func (s *Store) ListRecipients(region string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT email FROM subscribers WHERE region = ? AND active = TRUE ORDER BY email
	`, region)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// ListSubscribers returns every subscriber row, optionally filtered by region.
func (s *Store) ListSubscribers(region string) ([]models.Subscriber, error) {
	query := `SELECT id, email, region, active, created_at FROM subscribers`
	args := []any{}
	if region != "" {
		query += ` WHERE region = ?`
		args = append(args, region)
	}
	query += ` ORDER BY region, email`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Region, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
