package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidTestCase indicates a TestCase failed validation.
	ErrInvalidTestCase = errors.New("invalid test case")

	// ErrEmptyID indicates the identifier field is missing or blank.
	ErrEmptyID = errors.New("test case id cannot be empty")

	// ErrDuplicateID indicates two test cases in one batch share an identifier.
	ErrDuplicateID = errors.New("duplicate test case id")

	// ErrInvalidSteps indicates the steps field is neither text nor a list.
	ErrInvalidSteps = errors.New("invalid steps")
)
