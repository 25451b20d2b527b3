package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"propdocs/internal/model"
	"propdocs/internal/repository"
)

// TemplatePostgres is a PostgreSQL implementation of repository.TemplateRepository.
// The field schema is stored as a JSONB column.
type TemplatePostgres struct {
	db *sql.DB
}

// NewTemplatePostgres creates a new TemplatePostgres repository.
func NewTemplatePostgres(db *sql.DB) *TemplatePostgres {
	return &TemplatePostgres{db: db}
}

var _ repository.TemplateRepository = (*TemplatePostgres)(nil)

// Create inserts a new template row and returns the stored record.
func (r *TemplatePostgres) Create(ctx context.Context, tpl *model.Template) (*model.Template, error) {
	fields, err := json.Marshal(tpl.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}

	const q = `
		INSERT INTO templates (id, user_id, name, fields, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, fields, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		tpl.ID,
		tpl.UserID,
		tpl.Name,
		fields,
		tpl.CreatedAt,
	)
	return scanTemplate(row)
}

// FindByID fetches a single template by its ID.
func (r *TemplatePostgres) FindByID(ctx context.Context, id string) (*model.Template, error) {
	const q = `
		SELECT id, user_id, name, fields, created_at
		FROM templates
		WHERE id = $1
	`
	return scanTemplate(r.db.QueryRowContext(ctx, q, id))
}

// List returns the user's templates, newest first.
func (r *TemplatePostgres) List(ctx context.Context, userID string) ([]model.Template, error) {
	const q = `
		SELECT id, user_id, name, fields, created_at
		FROM templates
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Template, 0)
	for rows.Next() {
		var t model.Template
		var fields []byte
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &fields, &t.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fields, &t.Fields); err != nil {
			return nil, fmt.Errorf("decode fields: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanTemplate(row *sql.Row) (*model.Template, error) {
	var t model.Template
	var fields []byte
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &fields, &t.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fields, &t.Fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return &t, nil
}
