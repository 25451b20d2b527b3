package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory;
// no business logic here, strictly persistence operations.

import (
	"context"

	"propdocs/internal/model"
)

// TemplateRepository defines data access for document templates. Templates are
// immutable: there is no update or delete.
type TemplateRepository interface {
	// Create inserts a new template; the field schema is stored as structured data.
	Create(ctx context.Context, tpl *model.Template) (*model.Template, error)

	// FindByID returns a template by its ID.
	FindByID(ctx context.Context, id string) (*model.Template, error)

	// List returns the user's templates, newest first.
	List(ctx context.Context, userID string) ([]model.Template, error)
}

// PropertyRepository defines data access for properties.
type PropertyRepository interface {
	Create(ctx context.Context, p *model.Property) (*model.Property, error)

	FindByID(ctx context.Context, id string) (*model.Property, error)

	// List returns the user's properties, newest first, each with its
	// generated-document count.
	List(ctx context.Context, userID string) ([]model.Property, error)
}

// DocumentRepository defines data access for the per-property document index.
type DocumentRepository interface {
	// Create inserts an index row for a stored artifact.
	Create(ctx context.Context, doc *model.PropertyDocument) (*model.PropertyDocument, error)

	// ListByProperty returns the property's documents, newest first. An unknown
	// property yields an empty slice, not an error.
	ListByProperty(ctx context.Context, propertyID string) ([]model.PropertyDocument, error)

	// ListFileNames returns every indexed file name. Used by orphan reconciliation.
	ListFileNames(ctx context.Context) ([]string, error)

	// Delete removes the row matching both file name and property. It returns
	// nil if the row did not exist.
	Delete(ctx context.Context, fileName, propertyID string) error
}
