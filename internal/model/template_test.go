package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateValidate(t *testing.T) {
	tests := []struct {
		name    string
		tpl     Template
		wantErr error
	}{
		{
			name: "valid",
			tpl: Template{
				Name: "NDA",
				Fields: []FieldDescriptor{
					{Name: "party", Label: "Party Name", Type: FieldText},
					{Name: "date", Label: "Effective Date", Type: FieldDate},
				},
			},
		},
		{
			name:    "missing name",
			tpl:     Template{Fields: []FieldDescriptor{{Name: "a", Label: "A"}}},
			wantErr: ErrNameRequired,
		},
		{
			name:    "no fields",
			tpl:     Template{Name: "Empty"},
			wantErr: ErrFieldsRequired,
		},
		{
			name: "duplicate field name",
			tpl: Template{
				Name: "Lease",
				Fields: []FieldDescriptor{
					{Name: "tenant", Label: "Tenant"},
					{Name: "rent", Label: "Rent", Type: FieldNumber},
					{Name: "tenant", Label: "Tenant Again"},
				},
			},
			wantErr: ErrDuplicateField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tpl.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
