// Package assessment is the Assessment Runtime (§4.2): it evaluates a
// module end to end — resolving visible questions, collecting answers,
// computing derived fields, and emitting flags — against a merged view
// where current-render values shadow persisted state. That merge is the
// fix for the "one render behind" bug §9 calls out by name.
package assessment

import "github.com/brightpath/carecoord/internal/moduleconfig"

// State is a module instance: answers persisted from completed pages, plus
// whatever the current render pass has captured but not yet committed.
// ApplyAnswer writes to Current; Commit folds Current into Persisted at a
// page boundary.
type State struct {
	Persisted map[string]any
	Current   map[string]any
}

// NewState returns an empty module instance.
func NewState() *State {
	return &State{Persisted: make(map[string]any), Current: make(map[string]any)}
}

// Merged returns the current-render-shadows-persisted view used by every
// visibility and scoring evaluation (§4.2).
func (s *State) Merged() map[string]any {
	out := make(map[string]any, len(s.Persisted)+len(s.Current))
	for k, v := range s.Persisted {
		out[k] = v
	}
	for k, v := range s.Current {
		out[k] = v
	}
	return out
}

// ApplyAnswer validates and records a new answer in the current-render
// overlay. Visibility re-evaluation must use this value on the same render
// pass, not only the persisted state (§4.2).
func (s *State) ApplyAnswer(m *moduleconfig.Module, questionID string, value any) error {
	q, ok := m.QuestionByID(questionID)
	if !ok {
		return &ValidationError{QuestionID: questionID, Msg: "unknown question"}
	}
	if q.ReadOnly {
		return &ValidationError{QuestionID: questionID, Msg: "question is read-only"}
	}
	if err := validateValue(q, value); err != nil {
		return err
	}
	s.Current[questionID] = value
	return nil
}

// Commit folds the current-render overlay into persisted state, as happens
// at a page boundary (§5 "User navigation away... commits whatever pages
// have been completed").
func (s *State) Commit() {
	for k, v := range s.Current {
		s.Persisted[k] = v
	}
	s.Current = make(map[string]any)
}

// ValidationError is returned by ApplyAnswer for an invalid value; it does
// not abort the assessment (§4.2, §7) — only completeness/confidence are
// affected by a question being left unanswered.
type ValidationError struct {
	QuestionID string
	Msg        string
}

func (e *ValidationError) Error() string {
	return "invalid answer for " + e.QuestionID + ": " + e.Msg
}

func validateValue(q *moduleconfig.Question, value any) error {
	switch q.Type {
	case moduleconfig.TypeSingleSelect:
		str, ok := value.(string)
		if !ok {
			return &ValidationError{QuestionID: q.ID, Msg: "expected a single option value"}
		}
		if !hasOption(q, str) {
			return &ValidationError{QuestionID: q.ID, Msg: "value is not a declared option"}
		}
	case moduleconfig.TypeMultiSelect:
		values, ok := value.([]string)
		if !ok {
			if raw, okRaw := value.([]any); okRaw {
				values = make([]string, 0, len(raw))
				for _, item := range raw {
					s, ok := item.(string)
					if !ok {
						return &ValidationError{QuestionID: q.ID, Msg: "expected a list of option values"}
					}
					values = append(values, s)
				}
			} else {
				return &ValidationError{QuestionID: q.ID, Msg: "expected a list of option values"}
			}
		}
		for _, v := range values {
			if !hasOption(q, v) {
				return &ValidationError{QuestionID: q.ID, Msg: "value " + v + " is not a declared option"}
			}
		}
	case moduleconfig.TypeNumeric, moduleconfig.TypeCurrency:
		n, ok := asFloat(value)
		if !ok {
			return &ValidationError{QuestionID: q.ID, Msg: "expected a number"}
		}
		if q.Min != nil && n < *q.Min {
			return &ValidationError{QuestionID: q.ID, Msg: "value below minimum"}
		}
		if q.Max != nil && n > *q.Max {
			return &ValidationError{QuestionID: q.ID, Msg: "value above maximum"}
		}
	case moduleconfig.TypeText:
		if _, ok := value.(string); !ok {
			return &ValidationError{QuestionID: q.ID, Msg: "expected text"}
		}
	case moduleconfig.TypeDerived:
		return &ValidationError{QuestionID: q.ID, Msg: "derived fields are computed, not answered"}
	}
	return nil
}

func hasOption(q *moduleconfig.Question, value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
