// Package query parses listing parameters such as sort expressions and
// pagination cursors, and defines the error types raised when an
// expression references properties the listing does not expose.
package query

import (
	"fmt"
	"strings"
)

// Sort directions accepted in a sort expression.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// Sort orders a listing by a single exposed property.
type Sort struct {
	Property  string
	Direction string
}

// UnknownPropertyError reports a sort or filter expression that references
// a property the target listing does not expose.
type UnknownPropertyError struct {
	Property string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown property %q", e.Property)
}

// ParseSort parses a comma-separated sort expression such as
// "createdAt:desc,name" against the listing's sortable properties.
// Referencing a property outside that set returns *UnknownPropertyError.
func ParseSort(raw string, allowed []string) ([]Sort, error) {
	if raw == "" {
		return nil, nil
	}

	var sorts []Sort
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		property := term
		direction := DirectionAsc
		if i := strings.IndexByte(term, ':'); i >= 0 {
			property = term[:i]
			direction = strings.ToLower(term[i+1:])
		}

		if direction != DirectionAsc && direction != DirectionDesc {
			return nil, fmt.Errorf("invalid sort direction %q", direction)
		}
		if !contains(allowed, property) {
			return nil, &UnknownPropertyError{Property: property}
		}

		sorts = append(sorts, Sort{Property: property, Direction: direction})
	}

	return sorts, nil
}

func contains(allowed []string, property string) bool {
	for _, a := range allowed {
		if a == property {
			return true
		}
	}
	return false
}
