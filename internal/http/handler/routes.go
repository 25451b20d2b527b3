package handler

import (
	"context"
	"database/sql"
	"encoding/base64"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"propdocs/internal/http/middleware"
	"propdocs/internal/model"
	"propdocs/internal/service"
	"propdocs/internal/signature"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Everything
// except the health probes sits behind bearer-token auth.
func RegisterRoutes(app *fiber.App, db *sql.DB, jwtSecret string, tplSvc service.TemplateService, propSvc service.PropertyService, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	auth := middleware.Auth(jwtSecret)

	app.Post("/templates", auth, CreateTemplate(tplSvc))
	app.Get("/templates", auth, ListTemplates(tplSvc))
	app.Get("/templates/:id", auth, GetTemplate(tplSvc))

	app.Post("/properties", auth, CreateProperty(propSvc))
	app.Get("/properties", auth, ListProperties(propSvc))
	app.Get("/properties/:id", auth, GetProperty(propSvc))

	app.Post("/properties/:id/documents", auth, GenerateDocument(docSvc))
	app.Get("/properties/:id/documents", auth, ListPropertyDocuments(docSvc))
	app.Delete("/properties/:id/documents/:file_name", auth, DeleteDocument(docSvc))

	// Orphans must be registered before the parameterized download route so
	// "orphans" is not captured as a file name.
	app.Get("/documents/orphans", auth, ListOrphans(docSvc))
	app.Get("/documents/:file_name/url", auth, DocumentDownloadURL(docSvc))
}

// HealthCheck reports readiness; it requires a live database connection.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness check with no dependencies.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type createTemplateRequest struct {
	Name   string                  `json:"name"`
	Fields []model.FieldDescriptor `json:"fields"`
}

// CreateTemplate registers a new document template for the current user.
func CreateTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createTemplateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		tpl, err := svc.Create(c.UserContext(), middleware.UserID(c), req.Name, req.Fields)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(tpl)
	}
}

// ListTemplates returns the current user's templates, newest first.
func ListTemplates(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tpls, err := svc.List(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(tpls)
	}
}

// GetTemplate returns a single template by ID.
func GetTemplate(svc service.TemplateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		tpl, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(tpl)
	}
}

// CreateProperty registers a new property for the current user.
func CreateProperty(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.PropertyInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		p, err := svc.Create(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ListProperties returns the current user's properties with document counts.
func ListProperties(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		props, err := svc.List(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(props)
	}
}

// GetProperty returns a single property by ID.
func GetProperty(svc service.PropertyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(p)
	}
}

type generateDocumentRequest struct {
	TemplateID string            `json:"template_id"`
	Values     map[string]string `json:"values"`
	// Signature is a base64 PNG, with or without a data URL prefix. Clients
	// that capture raw pen input send Strokes instead and the server renders
	// the image; Signature wins when both are present.
	Signature string              `json:"signature"`
	Strokes   [][]signature.Point `json:"strokes"`
}

// GenerateDocument renders a template against submitted form values and files
// the resulting PDF under the property.
func GenerateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		propertyID := c.Params("id")
		if _, err := uuid.Parse(propertyID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req generateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		sig, err := decodeSignature(req.Signature)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SIGNATURE", "signature is not valid base64")
		}
		if sig == nil {
			sig = rasterizeStrokes(req.Strokes)
		}

		doc, err := svc.Generate(c.UserContext(), service.GenerateInput{
			PropertyID: propertyID,
			TemplateID: req.TemplateID,
			Values:     req.Values,
			Signature:  sig,
		})
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// ListPropertyDocuments returns the property's generated documents, newest first.
func ListPropertyDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		propertyID := c.Params("id")
		if _, err := uuid.Parse(propertyID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		docs, err := svc.List(c.UserContext(), propertyID)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(docs)
	}
}

// DocumentDownloadURL returns a dereferenceable URL for a stored document.
func DocumentDownloadURL(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, err := svc.DownloadURL(c.UserContext(), c.Params("file_name"))
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// DeleteDocument removes a document's blob and its index row.
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		propertyID := c.Params("id")
		if _, err := uuid.Parse(propertyID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), c.Params("file_name"), propertyID); err != nil {
			return mapServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListOrphans reports stored blobs that have no index row.
func ListOrphans(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names, err := svc.Orphans(c.UserContext())
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{"orphans": names})
	}
}

// rasterizeStrokes replays captured pen strokes on a fresh pad and exports
// the drawing as a PNG. Nil when nothing was drawn.
func rasterizeStrokes(strokes [][]signature.Point) []byte {
	if len(strokes) == 0 {
		return nil
	}
	pad := signature.NewPad(0, 0)
	for _, stroke := range strokes {
		pad.Stroke(stroke...)
	}
	if pad.Empty() {
		return nil
	}
	return pad.Export()
}

// decodeSignature accepts a raw base64 string or a PNG data URL and returns
// the decoded image bytes. An empty input means no signature was captured.
func decodeSignature(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		_, rest, ok := strings.Cut(s, ",")
		if !ok {
			return nil, base64.CorruptInputError(0)
		}
		s = rest
	}
	return base64.StdEncoding.DecodeString(s)
}
