package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"propdocs/internal/model"
	"propdocs/internal/pdf"
	repoMocks "propdocs/internal/repository/mocks"
	"propdocs/internal/storage"
	storeMocks "propdocs/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testClock = func() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestDocumentService(store *storeMocks.MockStorage, repo *repoMocks.MockDocumentRepository, tpls *repoMocks.MockTemplateRepository) *documentService {
	return &documentService{
		store:    store,
		repo:     repo,
		tpls:     tpls,
		renderer: pdf.NewRenderer(),
		now:      testClock,
	}
}

func leaseTemplate() *model.Template {
	return &model.Template{
		ID:     "tpl-1",
		UserID: "user-1",
		Name:   "Lease Agreement",
		Fields: []model.FieldDescriptor{
			{Name: "tenant", Label: "Tenant", Type: model.FieldText},
			{Name: "rent", Label: "Monthly Rent", Type: model.FieldNumber},
		},
	}
}

func TestDocumentService_Generate(t *testing.T) {
	ctx := context.Background()
	wantFileName := "lease_agreement_" + "1709294400000" + ".pdf"
	wantKey := artifactPrefix + wantFileName

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mTpls := new(repoMocks.MockTemplateRepository)
		svc := newTestDocumentService(mStore, mRepo, mTpls)

		mTpls.On("FindByID", ctx, "tpl-1").Return(leaseTemplate(), nil)
		mStore.On("Put", ctx, wantKey, mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.ContentType == "application/pdf" && opt.Size > 0
		})).Return(storage.ObjectInfo{Key: wantKey}, nil)
		mRepo.On("Create", ctx, mock.MatchedBy(func(doc *model.PropertyDocument) bool {
			return doc.FileName == wantFileName && doc.PropertyID == "prop-1"
		})).Return(&model.PropertyDocument{FileName: wantFileName, PropertyID: "prop-1"}, nil)

		doc, err := svc.Generate(ctx, GenerateInput{
			PropertyID: "prop-1",
			TemplateID: "tpl-1",
			Values:     map[string]string{"tenant": "Jane Doe"},
		})

		require.NoError(t, err)
		assert.Equal(t, wantFileName, doc.FileName)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("missing property id fails before any I/O", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mTpls := new(repoMocks.MockTemplateRepository)
		svc := newTestDocumentService(mStore, mRepo, mTpls)

		_, err := svc.Generate(ctx, GenerateInput{TemplateID: "tpl-1"})

		assert.ErrorIs(t, err, ErrPropertyRequired)
		mTpls.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing template id fails before any I/O", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mTpls := new(repoMocks.MockTemplateRepository)
		svc := newTestDocumentService(mStore, mRepo, mTpls)

		_, err := svc.Generate(ctx, GenerateInput{PropertyID: "prop-1"})

		assert.ErrorIs(t, err, ErrTemplateRequired)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown template", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mTpls := new(repoMocks.MockTemplateRepository)
		svc := newTestDocumentService(mStore, mRepo, mTpls)

		mTpls.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Generate(ctx, GenerateInput{PropertyID: "prop-1", TemplateID: "missing"})

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid schema rejected before rendering", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mTpls := new(repoMocks.MockTemplateRepository)
		svc := newTestDocumentService(mStore, mRepo, mTpls)

		mTpls.On("FindByID", ctx, "tpl-bad").
			Return(&model.Template{ID: "tpl-bad", Name: "Empty"}, nil)

		_, err := svc.Generate(ctx, GenerateInput{PropertyID: "prop-1", TemplateID: "tpl-bad"})

		assert.ErrorIs(t, err, model.ErrFieldsRequired)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blob write failure leaves no index row", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mTpls := new(repoMocks.MockTemplateRepository)
		svc := newTestDocumentService(mStore, mRepo, mTpls)

		mTpls.On("FindByID", ctx, "tpl-1").Return(leaseTemplate(), nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := svc.Generate(ctx, GenerateInput{PropertyID: "prop-1", TemplateID: "tpl-1"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "upload blob: storage fail")
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("index failure after blob write leaves orphan, no rollback", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mTpls := new(repoMocks.MockTemplateRepository)
		svc := newTestDocumentService(mStore, mRepo, mTpls)

		mTpls.On("FindByID", ctx, "tpl-1").Return(leaseTemplate(), nil)
		mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: wantKey}, nil)
		mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := svc.Generate(ctx, GenerateInput{PropertyID: "prop-1", TemplateID: "tpl-1"})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "index document")
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("repeated generation with identical clock overwrites same key", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mTpls := new(repoMocks.MockTemplateRepository)
		svc := newTestDocumentService(mStore, mRepo, mTpls)

		mTpls.On("FindByID", ctx, "tpl-1").Return(leaseTemplate(), nil).Twice()
		mStore.On("Put", ctx, wantKey, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: wantKey}, nil).Twice()
		mRepo.On("Create", ctx, mock.Anything).
			Return(&model.PropertyDocument{FileName: wantFileName, PropertyID: "prop-1"}, nil).Twice()

		in := GenerateInput{PropertyID: "prop-1", TemplateID: "tpl-1"}
		first, err := svc.Generate(ctx, in)
		require.NoError(t, err)
		second, err := svc.Generate(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, first.FileName, second.FileName)
		mStore.AssertExpectations(t)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("passes through, newest first", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(nil, mRepo, nil)

		docs := []model.PropertyDocument{
			{FileName: "b.pdf", PropertyID: "prop-1"},
			{FileName: "a.pdf", PropertyID: "prop-1"},
		}
		mRepo.On("ListByProperty", ctx, "prop-1").Return(docs, nil)

		got, err := svc.List(ctx, "prop-1")

		assert.NoError(t, err)
		assert.Equal(t, docs, got)
	})

	t.Run("missing property id", func(t *testing.T) {
		svc := newTestDocumentService(nil, nil, nil)

		_, err := svc.List(ctx, "")

		assert.ErrorIs(t, err, ErrPropertyRequired)
	})

	t.Run("unknown property yields empty list", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(nil, mRepo, nil)

		mRepo.On("ListByProperty", ctx, "nobody").Return([]model.PropertyDocument{}, nil)

		got, err := svc.List(ctx, "nobody")

		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDocumentService_DownloadURL(t *testing.T) {
	ctx := context.Background()

	t.Run("public bucket", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := newTestDocumentService(mStore, nil, nil)

		mStore.On("PublicURL", "documents/nda_1.pdf").
			Return("https://minio.local/docs/documents/nda_1.pdf")

		url, err := svc.DownloadURL(ctx, "nda_1.pdf")

		assert.NoError(t, err)
		assert.Equal(t, "https://minio.local/docs/documents/nda_1.pdf", url)
	})

	t.Run("private bucket presigns", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		svc := newTestDocumentService(mStore, nil, nil)
		svc.presign = true

		mStore.On("PresignGet", ctx, "documents/nda_1.pdf", presignExpiry).
			Return("https://minio.local/presigned", nil)

		url, err := svc.DownloadURL(ctx, "nda_1.pdf")

		assert.NoError(t, err)
		assert.Equal(t, "https://minio.local/presigned", url)
	})

	t.Run("missing file name", func(t *testing.T) {
		svc := newTestDocumentService(nil, nil, nil)

		_, err := svc.DownloadURL(ctx, "")

		assert.ErrorIs(t, err, ErrFileNameRequired)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("blob then row", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo, nil)

		mStore.On("Delete", ctx, "documents/nda_1.pdf").Return(nil)
		mRepo.On("Delete", ctx, "nda_1.pdf", "prop-1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "nda_1.pdf", "prop-1"))
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("blob failure keeps index row", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		svc := newTestDocumentService(mStore, mRepo, nil)

		mStore.On("Delete", ctx, mock.Anything).Return(errors.New("storage fail"))

		err := svc.Delete(ctx, "nda_1.pdf", "prop-1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "delete blob")
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing arguments", func(t *testing.T) {
		svc := newTestDocumentService(nil, nil, nil)

		assert.ErrorIs(t, svc.Delete(ctx, "", "prop-1"), ErrFileNameRequired)
		assert.ErrorIs(t, svc.Delete(ctx, "nda_1.pdf", ""), ErrPropertyRequired)
	})
}

func TestDocumentService_Orphans(t *testing.T) {
	ctx := context.Background()

	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockDocumentRepository)
	svc := newTestDocumentService(mStore, mRepo, nil)

	mStore.On("List", ctx, artifactPrefix).Return([]storage.ObjectInfo{
		{Key: "documents/indexed.pdf"},
		{Key: "documents/orphan.pdf"},
	}, nil)
	mRepo.On("ListFileNames", ctx).Return([]string{"indexed.pdf"}, nil)

	orphans, err := svc.Orphans(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []string{"orphan.pdf"}, orphans)
}

func TestDeriveFileName(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "lease_agreement_1709294400000.pdf", deriveFileName("Lease Agreement", at))
	assert.Equal(t, "nda_2_1709294400000.pdf", deriveFileName("NDA #2", at))
}
