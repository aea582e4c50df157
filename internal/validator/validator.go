// Package validator checks raw form input before it reaches the store.
package validator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"studentmanager/internal/model"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidAge   = errors.New("invalid age")
	ErrInvalidGrade = errors.New("invalid grade")
)

// decimalPattern is plain decimal notation with an optional exponent. It
// keeps out hex floats and digit separators that strconv would accept.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

const (
	MinGrade = 0.0
	MaxGrade = 10.0
)

// ValidationError reports the first rule a field broke. Kind is one of the
// Err* sentinels and is what errors.Is matches on.
type ValidationError struct {
	Field  string
	Value  string
	Kind   error
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Kind, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// ValidateStudent turns six raw fields into a Draft. Rules are checked in
// order (missing fields, name, age, grade) and the first failure is returned.
func ValidateStudent(name, age, grade, program, group, subject string) (model.Draft, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"name", &name},
		{"age", &age},
		{"grade", &grade},
		{"program", &program},
		{"group", &group},
		{"subject", &subject},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return model.Draft{}, &ValidationError{Field: f.name, Kind: ErrMissingField}
		}
	}

	if !isAlphaWithSpaces(name) {
		return model.Draft{}, &ValidationError{Field: "name", Value: name, Kind: ErrInvalidName, Reason: "only letters and spaces are allowed"}
	}

	parsedAge, err := parseAge(age)
	if err != nil {
		return model.Draft{}, &ValidationError{Field: "age", Value: age, Kind: ErrInvalidAge, Reason: err.Error()}
	}

	if !decimalPattern.MatchString(grade) {
		return model.Draft{}, &ValidationError{Field: "grade", Value: grade, Kind: ErrInvalidGrade, Reason: "not a number"}
	}
	parsedGrade, err := strconv.ParseFloat(grade, 64)
	if err != nil {
		return model.Draft{}, &ValidationError{Field: "grade", Value: grade, Kind: ErrInvalidGrade, Reason: "not a number"}
	}
	if math.IsNaN(parsedGrade) || parsedGrade < MinGrade || parsedGrade > MaxGrade {
		return model.Draft{}, &ValidationError{Field: "grade", Value: grade, Kind: ErrInvalidGrade, Reason: "out of range"}
	}

	return model.Draft{
		Name:    name,
		Age:     parsedAge,
		Grade:   parsedGrade,
		Program: program,
		Group:   group,
		Subject: subject,
	}, nil
}

// isAlphaWithSpaces reports whether s, with spaces removed, is a non-empty
// run of letters.
func isAlphaWithSpaces(s string) bool {
	letters := 0
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if !unicode.IsLetter(r) {
			return false
		}
		letters++
	}
	return letters > 0
}

func parseAge(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.New("only digits are allowed")
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("out of range")
	}
	return n, nil
}
