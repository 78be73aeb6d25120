package moduleconfig

import "fmt"

// ErrorKind distinguishes the four validation-failure classes the
// Configuration Loader can raise (§4.1, §6).
type ErrorKind string

const (
	KindSchemaError       ErrorKind = "SchemaError"
	KindUnknownFlag       ErrorKind = "UnknownFlag"
	KindDuplicateOption   ErrorKind = "DuplicateOption"
	KindDanglingVisibleIf ErrorKind = "DanglingVisibleIf"
)

// LoadError is the loader's single error type; Kind lets callers branch on
// the validation class without string-matching the message.
type LoadError struct {
	Kind ErrorKind
	File string
	Msg  string
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.File, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newLoadError(kind ErrorKind, file, format string, args ...any) *LoadError {
	return &LoadError{Kind: kind, File: file, Msg: fmt.Sprintf(format, args...)}
}
