package postgres

import (
	"context"
	"database/sql"

	"propdocs/internal/model"
	"propdocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document index row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.PropertyDocument) (*model.PropertyDocument, error) {
	const q = `
		INSERT INTO property_documents (file_name, property_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING file_name, property_id, created_at
	`
	row := r.db.QueryRowContext(ctx, q, doc.FileName, doc.PropertyID, doc.CreatedAt)

	var out model.PropertyDocument
	if err := row.Scan(&out.FileName, &out.PropertyID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByProperty returns the property's documents, newest first.
func (r *DocumentPostgres) ListByProperty(ctx context.Context, propertyID string) ([]model.PropertyDocument, error) {
	const q = `
		SELECT file_name, property_id, created_at
		FROM property_documents
		WHERE property_id = $1
		ORDER BY created_at DESC, file_name DESC
	`
	rows, err := r.db.QueryContext(ctx, q, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.PropertyDocument, 0)
	for rows.Next() {
		var d model.PropertyDocument
		if err := rows.Scan(&d.FileName, &d.PropertyID, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListFileNames returns every indexed file name.
func (r *DocumentPostgres) ListFileNames(ctx context.Context) ([]string, error) {
	const q = `SELECT file_name FROM property_documents`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Delete removes the row matching both keys. It does not return an error if
// the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, fileName, propertyID string) error {
	const q = `DELETE FROM property_documents WHERE file_name = $1 AND property_id = $2`
	res, err := r.db.ExecContext(ctx, q, fileName, propertyID)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
