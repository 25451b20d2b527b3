package postgres

import (
	"context"
	"testing"
	"time"

	"propdocs/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.PropertyDocument{
		FileName:   "lease_agreement_1709300000000.pdf",
		PropertyID: "prop-1",
		CreatedAt:  now,
	}

	rows := sqlmock.NewRows([]string{"file_name", "property_id", "created_at"}).
		AddRow(doc.FileName, doc.PropertyID, doc.CreatedAt)

	mock.ExpectQuery("INSERT INTO property_documents").
		WithArgs(doc.FileName, doc.PropertyID, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.FileName, result.FileName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListByProperty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		newer := time.Now().UTC()
		older := newer.Add(-time.Hour)
		rows := sqlmock.NewRows([]string{"file_name", "property_id", "created_at"}).
			AddRow("nda_2.pdf", "prop-1", newer).
			AddRow("nda_1.pdf", "prop-1", older)

		mock.ExpectQuery("SELECT (.+) FROM property_documents WHERE property_id = ?").
			WithArgs("prop-1").
			WillReturnRows(rows)

		docs, err := repo.ListByProperty(ctx, "prop-1")

		assert.NoError(t, err)
		assert.Len(t, docs, 2)
		assert.Equal(t, "nda_2.pdf", docs[0].FileName)
		assert.True(t, docs[0].CreatedAt.After(docs[1].CreatedAt))
	})

	t.Run("unknown property yields empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM property_documents WHERE property_id = ?").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"file_name", "property_id", "created_at"}))

		docs, err := repo.ListByProperty(ctx, "missing")

		assert.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)
	})
}

func TestDocumentPostgres_ListFileNames(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("SELECT file_name FROM property_documents").
		WillReturnRows(sqlmock.NewRows([]string{"file_name"}).
			AddRow("a.pdf").
			AddRow("b.pdf"))

	names, err := repo.ListFileNames(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, names)
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("existing row", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM property_documents WHERE file_name = (.+) AND property_id = ?").
			WithArgs("nda_1.pdf", "prop-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, "nda_1.pdf", "prop-1"))
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM property_documents WHERE file_name = (.+) AND property_id = ?").
			WithArgs("missing.pdf", "prop-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Delete(ctx, "missing.pdf", "prop-1"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
