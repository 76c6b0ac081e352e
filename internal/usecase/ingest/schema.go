package ingest

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
	"github.com/johnquangdev/meeting-intelligence/pkg/ai"
)

const schemaName = "meeting_intelligence"

func stringList(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       map[string]interface{}{"type": "string"},
	}
}

func closedObject(properties map[string]interface{}) map[string]interface{} {
	required := make([]string, 0, len(properties))
	for name := range properties {
		required = append(required, name)
	}
	slices.Sort(required)
	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// classificationList names the allowed values in the description only;
// Finalize coerces anything else to other
func classificationList() string {
	out := make([]string, 0, len(entities.MeetingClassifications))
	for _, c := range entities.MeetingClassifications {
		out = append(out, string(c))
	}
	return strings.Join(out, ", ")
}

// intelligenceSchema is the closed output schema sent to the model.
// Every property is required and nothing else is allowed.
func intelligenceSchema() map[string]interface{} {
	actionItem := closedObject(map[string]interface{}{
		"title":       map[string]interface{}{"type": "string", "description": "Short imperative title, at most 80 characters"},
		"description": map[string]interface{}{"type": "string"},
		"assignee":    map[string]interface{}{"type": "string", "description": "Full name of the owner, empty when unknown"},
		"priority":    map[string]interface{}{"type": "string", "description": "One of low, medium, high"},
		"due_date":    map[string]interface{}{"type": "string", "description": "YYYY-MM-DD, empty when not mentioned"},
	})

	return closedObject(map[string]interface{}{
		"title":          map[string]interface{}{"type": "string"},
		"date":           map[string]interface{}{"type": "string", "description": "Meeting date as YYYY-MM-DD, empty when unknown"},
		"primary_lead":   map[string]interface{}{"type": "string"},
		"participants":   stringList("Full names of the people present"),
		"organizations":  stringList("Organizations represented or discussed"),
		"summary":        map[string]interface{}{"type": "string"},
		"highlights":     stringList("Key points"),
		"opportunities":  stringList("Business opportunities raised"),
		"risks":          stringList("Risks or concerns raised"),
		"key_quotes":     stringList("Verbatim notable quotes"),
		"sectors":        stringList("Industry sectors discussed"),
		"jurisdictions":  stringList("Countries or regions discussed"),
		"classification": map[string]interface{}{"type": "string", "description": "One of " + classificationList()},
		"action_items": map[string]interface{}{
			"type":  "array",
			"items": actionItem,
		},
	})
}

// ResponseSchema returns the schema in the form the language model adapters take
func ResponseSchema() *ai.ResponseSchema {
	return &ai.ResponseSchema{
		Name:        schemaName,
		Description: "Structured intelligence extracted from one meeting transcript",
		Schema:      intelligenceSchema(),
	}
}

var (
	resolvedOnce   sync.Once
	resolvedSchema *jsonschema.Resolved
	resolveErr     error
)

// compiledSchema resolves intelligenceSchema once for validation
func compiledSchema() (*jsonschema.Resolved, error) {
	resolvedOnce.Do(func() {
		raw, err := json.Marshal(intelligenceSchema())
		if err != nil {
			resolveErr = fmt.Errorf("failed to marshal schema: %w", err)
			return
		}
		var schema jsonschema.Schema
		if err := json.Unmarshal(raw, &schema); err != nil {
			resolveErr = fmt.Errorf("failed to load schema: %w", err)
			return
		}
		resolvedSchema, resolveErr = schema.Resolve(nil)
	})
	return resolvedSchema, resolveErr
}

// validateAgainstSchema checks a decoded JSON document against the output schema
func validateAgainstSchema(doc map[string]interface{}) error {
	resolved, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := resolved.Validate(doc); err != nil {
		return fmt.Errorf("schema violation: %w", err)
	}
	return nil
}
