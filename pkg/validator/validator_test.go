package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type ingestPayload struct {
	Content string `validate:"required"`
	Kind    string `validate:"required,input_kind"`
}

func TestValidateDomainTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(ingestPayload{Content: "x", Kind: "structuredExport"}))
	assert.Error(t, v.Validate(ingestPayload{Content: "x", Kind: "pdf"}))
	assert.Error(t, v.Validate(ingestPayload{Kind: "text"}))
}
