package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type markInput struct {
	Status string `json:"status" binding:"required,attendance_status"`
	Date   string `json:"date" binding:"required,iso_date"`
}

func TestCustomTags(t *testing.T) {
	Setup()

	tests := []struct {
		name   string
		in     markInput
		fields []string
	}{
		{"valid", markInput{Status: "late", Date: "2024-03-01"}, nil},
		{"bad status", markInput{Status: "sick", Date: "2024-03-01"}, []string{"status"}},
		{"bad date", markInput{Status: "present", Date: "03/01/2024"}, []string{"date"}},
		{"both", markInput{Status: "x", Date: "2024-13-40"}, []string{"status", "date"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.in)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			fields := TranslateErrors(err)
			for _, f := range tt.fields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestTranslatedMessage(t *testing.T) {
	Setup()
	err := binding.Validator.ValidateStruct(&markInput{Status: "sick", Date: "2024-03-01"})
	fields := TranslateErrors(err)
	assert.Equal(t, "status must be one of present, absent, late, excused", fields["status"])
}
