// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Load reads and validates the template registry at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw registry JSON against the embedded schema and
// unmarshals it.
func Parse(data []byte) (*Registry, error) {
	schemaLoader := gojsonschema.NewStringLoader(registrySchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("registry schema validation: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, fmt.Errorf("registry invalid: %s", strings.Join(details, "; "))
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("unmarshal registry: %w", err)
	}

	seen := make(map[string]bool, len(reg.Templates))
	for _, t := range reg.Templates {
		if seen[t.ID] {
			return nil, fmt.Errorf("registry invalid: duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
	}

	return &reg, nil
}

// ByID returns the template with the given id.
func (r *Registry) ByID(id string) (*Template, bool) {
	for i := range r.Templates {
		if r.Templates[i].ID == id {
			return &r.Templates[i], true
		}
	}
	return nil, false
}

// Match resolves free-text template selection by case-insensitive
// substring containment against each template's category keywords.
// Unmatched input returns false; the caller re-prompts instead of
// guessing a default.
func (r *Registry) Match(input string) (*Template, bool) {
	lowered := strings.ToLower(input)
	for i := range r.Templates {
		t := &r.Templates[i]
		for _, kw := range t.CategoryKeywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return t, true
			}
		}
		if strings.EqualFold(strings.TrimSpace(input), t.DisplayName) {
			return t, true
		}
	}
	return nil, false
}

// QuestionFor returns the declared question for a field label, if any.
// Fields discovered by extraction that have no declared question get a
// generic prompt from the driver.
func (t *Template) QuestionFor(label string) (Question, bool) {
	for _, q := range t.Questions {
		if q.Label == label {
			return q, true
		}
	}
	return Question{}, false
}
