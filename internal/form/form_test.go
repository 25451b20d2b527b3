package form

import (
	"testing"

	"propdocs/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestBind(t *testing.T) {
	tpl := &model.Template{
		Name: "Lease",
		Fields: []model.FieldDescriptor{
			{Name: "tenant", Label: "Tenant"},
			{Name: "rent", Label: "Monthly Rent", Type: model.FieldNumber},
			{Name: "start", Label: "Start Date", Type: model.FieldDate},
		},
	}

	t.Run("every field bound, missing input becomes empty", func(t *testing.T) {
		vals := Bind(tpl, map[string]string{"tenant": "Jane Doe", "rent": "1200"})

		assert.Len(t, vals, 3)
		assert.Equal(t, "Jane Doe", vals["tenant"])
		assert.Equal(t, "1200", vals["rent"])
		assert.Equal(t, "", vals["start"])
	})

	t.Run("nil raw input binds all fields blank", func(t *testing.T) {
		vals := Bind(tpl, nil)

		assert.Len(t, vals, 3)
		for _, f := range tpl.Fields {
			v, ok := vals[f.Name]
			assert.True(t, ok)
			assert.Equal(t, "", v)
		}
	})

	t.Run("inputs without a matching field are dropped", func(t *testing.T) {
		vals := Bind(tpl, map[string]string{"tenant": "Jane", "bogus": "x"})

		assert.Len(t, vals, 3)
		_, ok := vals["bogus"]
		assert.False(t, ok)
	})
}
