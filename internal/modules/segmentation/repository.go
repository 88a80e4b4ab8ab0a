package segmentation

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles customer segment assignment storage
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new segmentation repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "segmentation").Logger(),
	}
}

// Upsert writes an assignment, replacing any prior row for the same
// (company, cuit). Idempotent, so a partially failed batch can re-run.
func (r *Repository) Upsert(a Assignment) error {
	_, err := r.db.Exec(`
		INSERT INTO customer_segments
			(company, cuit, customer_name, mix_type, dominant_category,
			 top_subcategory, share_pct, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company, cuit)
		DO UPDATE SET
			customer_name = excluded.customer_name,
			mix_type = excluded.mix_type,
			dominant_category = excluded.dominant_category,
			top_subcategory = excluded.top_subcategory,
			share_pct = excluded.share_pct,
			updated_at = excluded.updated_at
	`,
		a.Company,
		a.CUIT,
		a.CustomerName,
		string(a.MixType),
		a.DominantCategory,
		a.TopSubcategory,
		a.SharePct,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert segment assignment: %w", err)
	}

	return nil
}

// GetByCUIT returns a customer's assignment, or nil if none exists.
// A customer active in more than one company has one row per company; the
// most recently updated one is returned, mirroring the single-row lookup the
// benchmark engine works from.
func (r *Repository) GetByCUIT(cuit string) (*Assignment, error) {
	row := r.db.QueryRow(`
		SELECT company, cuit, COALESCE(customer_name, ''), mix_type,
			dominant_category, top_subcategory, share_pct, updated_at
		FROM customer_segments
		WHERE cuit = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`, cuit)

	var a Assignment
	var mix string
	err := row.Scan(&a.Company, &a.CUIT, &a.CustomerName, &mix,
		&a.DominantCategory, &a.TopSubcategory, &a.SharePct, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get segment assignment: %w", err)
	}
	a.MixType = MixType(mix)

	return &a, nil
}

// CustomersMatching returns the distinct CUITs whose assignment matches the
// profile. When strict is false the top-subcategory field is ignored (the
// relaxed peer search).
func (r *Repository) CustomersMatching(p Profile, strict bool) ([]string, error) {
	query := `
		SELECT DISTINCT cuit
		FROM customer_segments
		WHERE mix_type = ? AND dominant_category = ?
	`
	args := []interface{}{string(p.MixType), p.DominantCategory}
	if strict {
		query += " AND top_subcategory = ?"
		args = append(args, p.TopSubcategory)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matching customers: %w", err)
	}
	defer rows.Close()

	var cuits []string
	for rows.Next() {
		var cuit string
		if err := rows.Scan(&cuit); err != nil {
			return nil, fmt.Errorf("failed to scan cuit: %w", err)
		}
		cuits = append(cuits, cuit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matching customers: %w", err)
	}

	return cuits, nil
}

// Count returns the number of stored assignments.
func (r *Repository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM customer_segments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count segment assignments: %w", err)
	}
	return n, nil
}

// Distribution returns how many customers fall in each mix type.
func (r *Repository) Distribution() (map[MixType]int, error) {
	rows, err := r.db.Query(`
		SELECT mix_type, COUNT(*)
		FROM customer_segments
		GROUP BY mix_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query segment distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[MixType]int)
	for rows.Next() {
		var mix string
		var count int
		if err := rows.Scan(&mix, &count); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		dist[MixType(mix)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution: %w", err)
	}

	return dist, nil
}
