package core

import (
	"fmt"
	"strings"
)

// ValidateTestCase checks field presence for a single test case.
//
// Validation rules:
//   - ID must not be blank
//
// NOT validated (free text, may be empty):
//   - Module, Title, Description, Steps, ExpectedResults
func ValidateTestCase(tc *TestCase) error {
	if tc == nil {
		return fmt.Errorf("%w: test case is nil", ErrInvalidTestCase)
	}
	if strings.TrimSpace(tc.ID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTestCase, ErrEmptyID)
	}
	return nil
}

// ValidateTestCases validates every test case and checks that identifiers
// are unique within the batch. The error names the offending position.
func ValidateTestCases(cases []TestCase) error {
	seen := make(map[string]int, len(cases))
	for i := range cases {
		if err := ValidateTestCase(&cases[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if first, ok := seen[cases[i].ID]; ok {
			return fmt.Errorf("record %d: %w: %q first seen at record %d", i, ErrDuplicateID, cases[i].ID, first)
		}
		seen[cases[i].ID] = i
	}
	return nil
}
