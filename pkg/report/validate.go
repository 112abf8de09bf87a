package report

import (
	"strings"
	"time"
)

// Validation messages surfaced as field markers.
const (
	MsgRequired          = "This field is required."
	MsgDescriptionLength = "Description must be at least 20 characters."
	MsgDateFuture        = "Incident date cannot be in the future."
	MsgDateFormat        = "Incident date must look like 2025-08-29."
)

// DescriptionMinLength is the trimmed minimum for the description field.
const DescriptionMinLength = 20

var requiredFields = []string{
	FieldTitle,
	FieldDescription,
	FieldIncidentType,
	FieldIncidentDate,
}

// Result is one full validation pass over the form. It is recomputed from
// scratch on every attempt, never merged with a prior result.
type Result struct {
	Valid       bool
	FieldErrors map[string][]string
}

// FirstInvalid returns the first field in document order carrying a
// violation, or "" when valid.
func (r Result) FirstInvalid() string {
	for _, name := range FieldOrder {
		if len(r.FieldErrors[name]) > 0 {
			return name
		}
	}
	return ""
}

// Messages flattens all violations in document order for an aggregate notice.
func (r Result) Messages() []string {
	var out []string
	for _, name := range FieldOrder {
		out = append(out, r.FieldErrors[name]...)
	}
	return out
}

// ValidateForm checks the current field values against the submission rules.
// Pure and stateless: now is injected so the date rule is testable.
func ValidateForm(values Fields, now time.Time) Result {
	errs := make(map[string][]string)
	add := func(field, msg string) {
		errs[field] = append(errs[field], msg)
	}

	for _, name := range requiredFields {
		if strings.TrimSpace(values[name]) == "" {
			add(name, MsgRequired)
		}
	}

	// Length fires only when the field has content; emptiness is already
	// reported once by the required rule.
	if desc := strings.TrimSpace(values[FieldDescription]); desc != "" && len([]rune(desc)) < DescriptionMinLength {
		add(FieldDescription, MsgDescriptionLength)
	}

	if raw := strings.TrimSpace(values[FieldIncidentDate]); raw != "" {
		when, err := time.ParseInLocation(DateLayout, raw, now.Location())
		if err != nil {
			add(FieldIncidentDate, MsgDateFormat)
		} else if when.After(endOfDay(now)) {
			add(FieldIncidentDate, MsgDateFuture)
		}
	}

	return Result{Valid: len(errs) == 0, FieldErrors: errs}
}

// endOfDay is 23:59:59.999 local on now's calendar day.
func endOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), now.Location())
}
