// Package pdf renders a template plus bound form values (and an optional
// signature image) into a single-page PDF artifact.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	gofpdf "github.com/lvillar/gofpdf"

	"propdocs/internal/form"
	"propdocs/internal/model"
)

// Layout constants, in mm on a portrait A4 page.
const (
	marginLeft  = 20.0
	titleY      = 20.0
	titleSize   = 18.0
	bodySize    = 12.0
	fieldStartY = 40.0
	fieldStep   = 10.0
	sigWidth    = 100.0
	sigHeight   = 40.0
)

// Renderer produces PDF artifacts. Rendering is a pure function of the
// template, the bound values, and the signature image: the field lines follow
// template order, and the only wall-clock input (the document creation date)
// comes from the injectable clock.
type Renderer struct {
	now func() time.Time
}

// NewRenderer returns a Renderer stamping documents with the current time.
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// Render produces the document: the template name as a title, one
// "<label>: <value>" line per field in declared order, and, when signaturePNG
// is non-empty, a "Signature:" label followed by the embedded image. The
// template must have passed Validate; Render performs no schema checks.
func (r *Renderer) Render(tpl *model.Template, values form.Values, signaturePNG []byte) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(r.now())
	doc.SetModificationDate(r.now())
	doc.SetTitle(tpl.Name, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "", titleSize)
	doc.Text(marginLeft, titleY, tpl.Name)

	doc.SetFont("Helvetica", "", bodySize)
	y := fieldStartY
	for _, line := range fieldLines(tpl, values) {
		doc.Text(marginLeft, y, line)
		y += fieldStep
	}

	if len(signaturePNG) > 0 {
		doc.Text(marginLeft, y+5, "Signature:")
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		doc.RegisterImageOptionsReader("signature", opt, bytes.NewReader(signaturePNG))
		doc.ImageOptions("signature", marginLeft, y+10, sigWidth, sigHeight, false, opt, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fieldLines builds the per-field lines in template declaration order. Values
// missing from the map render as blank, matching form.Bind's contract.
func fieldLines(tpl *model.Template, values form.Values) []string {
	lines := make([]string, 0, len(tpl.Fields))
	for _, f := range tpl.Fields {
		lines = append(lines, fmt.Sprintf("%s: %s", f.Label, values[f.Name]))
	}
	return lines
}
