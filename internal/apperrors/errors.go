package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates an operation attempted against an entity in the wrong lifecycle state.
var ErrInvalidState = errors.New("invalid state for operation")

// ErrUnbalanced indicates a journal entry whose debit and credit totals differ.
var ErrUnbalanced = errors.New("journal entry is not balanced")

// ErrForbidden indicates the acting user lacks the authorization the operation requires.
var ErrForbidden = errors.New("operation not authorized")

// ErrSequencing indicates a period transition that would break the chronological order of the books.
var ErrSequencing = errors.New("period sequencing violation")

// ErrIntegrity indicates a ledger record or chain that failed integrity verification.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
