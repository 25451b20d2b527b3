package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"propdocs/internal/model"
	"propdocs/internal/repository"
)

// TemplateService defines the use cases around document templates.
// Templates are immutable once created; there is no update or delete.
type TemplateService interface {
	// Create validates and saves a new template owned by the user.
	Create(ctx context.Context, userID, name string, fields []model.FieldDescriptor) (*model.Template, error)

	// List returns the user's templates, newest first.
	List(ctx context.Context, userID string) ([]model.Template, error)

	// Get returns a single template by its ID.
	Get(ctx context.Context, id string) (*model.Template, error)
}

type templateService struct {
	repo repository.TemplateRepository
	now  func() time.Time
}

// NewTemplateService constructs a new TemplateService.
func NewTemplateService(repo repository.TemplateRepository) TemplateService {
	return &templateService{repo: repo, now: time.Now}
}

func (s *templateService) Create(ctx context.Context, userID, name string, fields []model.FieldDescriptor) (*model.Template, error) {
	tpl := &model.Template{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Fields:    fields,
		CreatedAt: s.now().UTC(),
	}
	// Schema invariants are enforced at entry; renderers assume a valid template.
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, tpl)
}

func (s *templateService) List(ctx context.Context, userID string) ([]model.Template, error) {
	return s.repo.List(ctx, userID)
}

func (s *templateService) Get(ctx context.Context, id string) (*model.Template, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tpl, nil
}
