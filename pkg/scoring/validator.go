package scoring

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinSeverity = 1
	MaxSeverity = 5
)

// ErrNoSymptoms is returned for an empty selection. Callers surface it as a
// user warning rather than a failure.
var ErrNoSymptoms = errors.New("please select at least one symptom")

var (
	errSeverityRange = errors.New("severity out of range")
	errEmptyName     = errors.New("symptom name required")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Validate checks an input sequence before scoring.
func Validate(symptoms []Symptom) error {
	if len(symptoms) == 0 {
		return ErrNoSymptoms
	}
	for i, s := range symptoms {
		if strings.TrimSpace(s.Name) == "" {
			return ValidationError{reason: fmt.Errorf("symptom %d: %w", i, errEmptyName)}
		}
		if s.Severity < MinSeverity || s.Severity > MaxSeverity {
			return ValidationError{reason: fmt.Errorf("symptom '%s' severity %d not in [%d,%d]: %w",
				s.Name, s.Severity, MinSeverity, MaxSeverity, errSeverityRange)}
		}
	}
	return nil
}
