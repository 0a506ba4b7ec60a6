package apperror

import (
	"sort"
	"strings"
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects field-level problems found before any write is attempted.
type ValidationError struct {
	Fields []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldIssue{Field: field, Reason: reason})
}

// OrNil returns nil when nothing was added, sorted issues otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	sort.SliceStable(e.Fields, func(i, j int) bool {
		if e.Fields[i].Field == e.Fields[j].Field {
			return e.Fields[i].Reason < e.Fields[j].Reason
		}
		return e.Fields[i].Field < e.Fields[j].Field
	})
	return e
}

func Invalid(field, reason string) error {
	return &ValidationError{Fields: []FieldIssue{{Field: field, Reason: reason}}}
}
