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

var ErrAddressRequired = errors.New("address is required")

// PropertyInput carries the address attributes for a new property.
type PropertyInput struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// PropertyService defines the use cases around properties.
type PropertyService interface {
	Create(ctx context.Context, userID string, in PropertyInput) (*model.Property, error)

	// List returns the user's properties, newest first, with document counts.
	List(ctx context.Context, userID string) ([]model.Property, error)

	Get(ctx context.Context, id string) (*model.Property, error)
}

type propertyService struct {
	repo repository.PropertyRepository
	now  func() time.Time
}

// NewPropertyService constructs a new PropertyService.
func NewPropertyService(repo repository.PropertyRepository) PropertyService {
	return &propertyService{repo: repo, now: time.Now}
}

func (s *propertyService) Create(ctx context.Context, userID string, in PropertyInput) (*model.Property, error) {
	if in.Address == "" {
		return nil, ErrAddressRequired
	}
	return s.repo.Create(ctx, &model.Property{
		ID:        uuid.New().String(),
		UserID:    userID,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		Zip:       in.Zip,
		CreatedAt: s.now().UTC(),
	})
}

func (s *propertyService) List(ctx context.Context, userID string) ([]model.Property, error) {
	return s.repo.List(ctx, userID)
}

func (s *propertyService) Get(ctx context.Context, id string) (*model.Property, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
