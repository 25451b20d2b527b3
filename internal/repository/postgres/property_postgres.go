package postgres

import (
	"context"
	"database/sql"

	"propdocs/internal/model"
	"propdocs/internal/repository"
)

// PropertyPostgres is a PostgreSQL implementation of repository.PropertyRepository.
type PropertyPostgres struct {
	db *sql.DB
}

// NewPropertyPostgres creates a new PropertyPostgres repository.
func NewPropertyPostgres(db *sql.DB) *PropertyPostgres {
	return &PropertyPostgres{db: db}
}

var _ repository.PropertyRepository = (*PropertyPostgres)(nil)

// Create inserts a new property row and returns the stored record.
func (r *PropertyPostgres) Create(ctx context.Context, p *model.Property) (*model.Property, error) {
	const q = `
		INSERT INTO properties (id, user_id, address, city, state, zip, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, address, city, state, zip, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.UserID,
		p.Address,
		p.City,
		p.State,
		p.Zip,
		p.CreatedAt,
	)
	var out model.Property
	if err := row.Scan(&out.ID, &out.UserID, &out.Address, &out.City, &out.State, &out.Zip, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single property by its ID.
func (r *PropertyPostgres) FindByID(ctx context.Context, id string) (*model.Property, error) {
	const q = `
		SELECT id, user_id, address, city, state, zip, created_at
		FROM properties
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var p model.Property
	if err := row.Scan(&p.ID, &p.UserID, &p.Address, &p.City, &p.State, &p.Zip, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the user's properties, newest first, with document counts.
func (r *PropertyPostgres) List(ctx context.Context, userID string) ([]model.Property, error) {
	const q = `
		SELECT p.id, p.user_id, p.address, p.city, p.state, p.zip, p.created_at,
		       COUNT(d.file_name) AS document_count
		FROM properties p
		LEFT JOIN property_documents d ON d.property_id = p.id
		WHERE p.user_id = $1
		GROUP BY p.id, p.user_id, p.address, p.city, p.state, p.zip, p.created_at
		ORDER BY p.created_at DESC, p.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Property, 0)
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.UserID, &p.Address, &p.City, &p.State, &p.Zip, &p.CreatedAt, &p.DocumentCount); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
