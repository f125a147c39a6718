package domain

import "errors"

// Journal entry line invariant violations.
var (
	ErrNegativeJournalAmount = errors.New("debit and credit amounts cannot be negative")
	ErrBothSidesSet          = errors.New("a journal entry line cannot be both a debit and a credit")
	ErrNoSideSet             = errors.New("either debit or credit amount must be provided")
)
