package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"propdocs/internal/form"
	"propdocs/internal/model"
	"propdocs/internal/pdf"
	"propdocs/internal/repository"
	"propdocs/internal/storage"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrPropertyRequired = errors.New("property id is required")
	ErrTemplateRequired = errors.New("template id is required")
	ErrFileNameRequired = errors.New("file name is required")
	ErrNotFound         = errors.New("not found")
)

// artifactPrefix is the object storage folder for generated documents.
const artifactPrefix = "documents/"

// presignExpiry bounds presigned download URLs for private buckets.
const presignExpiry = 15 * time.Minute

// GenerateInput carries one generation attempt: the target property, the
// template to drive rendering, raw form inputs keyed by field name, and an
// optional captured signature image (PNG bytes).
type GenerateInput struct {
	PropertyID string
	TemplateID string
	Values     map[string]string
	Signature  []byte
}

// DocumentService defines the use cases around generated property documents.
type DocumentService interface {
	// Generate renders the template with the given values and signature,
	// uploads the artifact, then indexes it against the property. The blob
	// write always precedes the index insert; an index failure after a
	// successful write leaves an orphaned blob (see Orphans).
	Generate(ctx context.Context, in GenerateInput) (*model.PropertyDocument, error)

	// List returns the property's documents, newest first. An unknown property
	// yields an empty list.
	List(ctx context.Context, propertyID string) ([]model.PropertyDocument, error)

	// DownloadURL returns a dereferenceable locator for a stored artifact.
	// It does not verify the blob exists.
	DownloadURL(ctx context.Context, fileName string) (string, error)

	// Delete removes the blob, then the index row matching both keys.
	Delete(ctx context.Context, fileName, propertyID string) error

	// Orphans lists blob file names that have no index row, the residue of
	// interrupted or partially failed generations.
	Orphans(ctx context.Context) ([]string, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	tpls     repository.TemplateRepository
	renderer *pdf.Renderer
	presign  bool
	now      func() time.Time
}

// NewDocumentService constructs a new DocumentService. With presign set,
// download locators are presigned GET URLs instead of public bucket URLs.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, tpls repository.TemplateRepository, renderer *pdf.Renderer, presign bool) DocumentService {
	return &documentService{
		store:    store,
		repo:     repo,
		tpls:     tpls,
		renderer: renderer,
		presign:  presign,
		now:      time.Now,
	}
}

func (s *documentService) Generate(ctx context.Context, in GenerateInput) (*model.PropertyDocument, error) {
	// Preconditions are checked before any I/O is attempted.
	if in.PropertyID == "" {
		return nil, ErrPropertyRequired
	}
	if in.TemplateID == "" {
		return nil, ErrTemplateRequired
	}

	tpl, err := s.tpls.FindByID(ctx, in.TemplateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load template: %w", err)
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	values := form.Bind(tpl, in.Values)
	artifact, err := s.renderer.Render(tpl, values, in.Signature)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	fileName := deriveFileName(tpl.Name, s.now())
	key := artifactPrefix + fileName

	// Blob first. A repeated generation with a colliding name overwrites.
	_, err = s.store.Put(ctx, key, bytes.NewReader(artifact), storage.PutObjectOptions{
		Size:        int64(len(artifact)),
		ContentType: "application/pdf",
		Metadata: map[string]string{
			"template-name": tpl.Name,
			"property-id":   in.PropertyID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	// Index second. No rollback on failure: the blob stays behind as an
	// orphan, discoverable through Orphans and removable by a later delete.
	stored, err := s.repo.Create(ctx, &model.PropertyDocument{
		FileName:   fileName,
		PropertyID: in.PropertyID,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("index document (blob %s left in place): %w", key, err)
	}
	return stored, nil
}

func (s *documentService) List(ctx context.Context, propertyID string) ([]model.PropertyDocument, error) {
	if propertyID == "" {
		return nil, ErrPropertyRequired
	}
	return s.repo.ListByProperty(ctx, propertyID)
}

func (s *documentService) DownloadURL(ctx context.Context, fileName string) (string, error) {
	if fileName == "" {
		return "", ErrFileNameRequired
	}
	key := artifactPrefix + fileName
	if s.presign {
		url, err := s.store.PresignGet(ctx, key, presignExpiry)
		if err != nil {
			return "", fmt.Errorf("presign download: %w", err)
		}
		return url, nil
	}
	return s.store.PublicURL(key), nil
}

// Delete removes the blob, then the index row. Either step can fail leaving
// the other side in place; the error names the step that failed.
func (s *documentService) Delete(ctx context.Context, fileName, propertyID string) error {
	if fileName == "" {
		return ErrFileNameRequired
	}
	if propertyID == "" {
		return ErrPropertyRequired
	}
	if err := s.store.Delete(ctx, artifactPrefix+fileName); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	if err := s.repo.Delete(ctx, fileName, propertyID); err != nil {
		return fmt.Errorf("delete index row: %w", err)
	}
	return nil
}

func (s *documentService) Orphans(ctx context.Context) ([]string, error) {
	blobs, err := s.store.List(ctx, artifactPrefix)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	names, err := s.repo.ListFileNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list index: %w", err)
	}

	indexed := make(map[string]struct{}, len(names))
	for _, n := range names {
		indexed[n] = struct{}{}
	}

	orphans := make([]string, 0)
	for _, b := range blobs {
		name := strings.TrimPrefix(b.Key, artifactPrefix)
		if _, ok := indexed[name]; !ok {
			orphans = append(orphans, name)
		}
	}
	return orphans, nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-z0-9]+`)

// deriveFileName turns a template name into a filesystem-safe token and
// appends the generation timestamp in milliseconds, so repeated generations
// from the same template get distinct names.
func deriveFileName(templateName string, t time.Time) string {
	safe := unsafeNameChars.ReplaceAllString(strings.ToLower(templateName), "_")
	return safe + "_" + strconv.FormatInt(t.UnixMilli(), 10) + ".pdf"
}
