// pkg/registry/schema.go
package registry

// Convention tells the extractor and filler how a template marks its fields.
type Convention string

const (
	// ConventionRedRun marks fields as text runs rendered in pure red.
	ConventionRedRun Convention = "red-run"
	// ConventionMarker marks fields as literal {{TOKEN}} text.
	ConventionMarker Convention = "marker"
)

// FlowKind selects the conversation flow a template is driven by.
type FlowKind string

const (
	// FlowLinear is the fixed questionnaire: one value per field.
	FlowLinear FlowKind = "linear"
	// FlowBlock is the repeatable sub-form: N blocks become table rows.
	FlowBlock FlowKind = "block"
)

// Registry is the full template registry loaded from templates.json.
type Registry struct {
	Version   string     `json:"version"`
	Templates []Template `json:"templates"`
}

// Template describes one document blueprint.
type Template struct {
	ID               string     `json:"id"`
	DisplayName      string     `json:"displayName"`
	File             string     `json:"file"`
	Convention       Convention `json:"convention"`
	Flow             FlowKind   `json:"flow"`
	CategoryKeywords []string   `json:"categoryKeywords"`
	Questions        []Question `json:"questions,omitempty"`

	// Block flow only.
	BlockPlaceholder string `json:"blockPlaceholder,omitempty"`
	DateLabel        string `json:"dateLabel,omitempty"`
	DatePrompt       string `json:"datePrompt,omitempty"`
}

// Question binds a field label to its human-readable prompt and input rules.
type Question struct {
	Label     string   `json:"label"`
	Prompt    string   `json:"prompt"`
	Kind      string   `json:"kind"`
	QuickPick []string `json:"quickPick,omitempty"`
	Classify  bool     `json:"classify,omitempty"`
	CodeLabel string   `json:"codeLabel,omitempty"`
}

// registrySchema validates templates.json on load. Malformed registries
// are a startup failure, not a runtime surprise.
const registrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "templates"],
  "properties": {
    "version": {"type": "string"},
    "templates": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "displayName", "file", "convention", "flow", "categoryKeywords"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "displayName": {"type": "string", "minLength": 1},
          "file": {"type": "string", "minLength": 1},
          "convention": {"enum": ["red-run", "marker"]},
          "flow": {"enum": ["linear", "block"]},
          "categoryKeywords": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          },
          "questions": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["label", "prompt", "kind"],
              "properties": {
                "label": {"type": "string", "minLength": 1},
                "prompt": {"type": "string", "minLength": 1},
                "kind": {"enum": ["text", "integer", "decimal", "date", "upper"]},
                "quickPick": {"type": "array", "items": {"type": "string"}},
                "classify": {"type": "boolean"},
                "codeLabel": {"type": "string"}
              }
            }
          },
          "blockPlaceholder": {"type": "string"},
          "dateLabel": {"type": "string"},
          "datePrompt": {"type": "string"}
        }
      }
    }
  }
}`
