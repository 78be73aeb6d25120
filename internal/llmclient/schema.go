package llmclient

import "fmt"

// FieldKind is the subset of JSON types a response field may declare.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindNumber FieldKind = "number"
	KindBool   FieldKind = "bool"
)

// FieldSpec describes one expected field in a structured response.
type FieldSpec struct {
	Kind     FieldKind
	Required bool
	// OneOf, when non-empty, restricts a string field to an allowed set
	// (used for the adjudicator's tier field).
	OneOf []string
}

// Schema is the response_schema half of a request: what fields a
// well-formed JSON reply must carry (§4.11 "schema-validated JSON
// response").
type Schema struct {
	Fields map[string]FieldSpec
}

// Validate checks data against the schema, field by field. It does not
// reject unknown extra fields: the contract is "these are guaranteed
// present and typed", not "nothing else may appear".
func (s Schema) Validate(data map[string]any) error {
	for name, spec := range s.Fields {
		v, ok := data[name]
		if !ok {
			if spec.Required {
				return fmt.Errorf("llmclient: missing required field %q", name)
			}
			continue
		}
		if err := validateKind(name, v, spec); err != nil {
			return err
		}
	}
	return nil
}

func validateKind(name string, v any, spec FieldSpec) error {
	switch spec.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("llmclient: field %q must be a string", name)
		}
		if len(spec.OneOf) > 0 && !containsStr(spec.OneOf, s) {
			return fmt.Errorf("llmclient: field %q value %q not in allowed set", name, s)
		}
	case KindNumber:
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("llmclient: field %q must be a number", name)
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("llmclient: field %q must be a bool", name)
		}
	}
	return nil
}

func containsStr(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
