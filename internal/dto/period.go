package dto

// PeriodLockFailureKind tags why a period transition was refused.
type PeriodLockFailureKind string

const (
	PeriodLockFailureNone          PeriodLockFailureKind = ""
	PeriodLockFailureAuthorization PeriodLockFailureKind = "AUTHORIZATION"
	PeriodLockFailureNotFound      PeriodLockFailureKind = "NOT_FOUND"
	PeriodLockFailureInvalidState  PeriodLockFailureKind = "INVALID_STATE"
	PeriodLockFailureSequencing    PeriodLockFailureKind = "SEQUENCING"
	PeriodLockFailureValidation    PeriodLockFailureKind = "VALIDATION"
	PeriodLockFailureInternal      PeriodLockFailureKind = "INTERNAL"
)

// PeriodLockResult is the tagged outcome of a close/reopen operation.
// Authorization and business-rule refusals are ordinary control flow for the
// caller, so the period locking service reports them here instead of as
// errors.
type PeriodLockResult struct {
	OK     bool                  `json:"ok"`
	Kind   PeriodLockFailureKind `json:"kind,omitempty"`
	Reason string                `json:"reason,omitempty"`
}

// PeriodLockSuccess builds a successful result.
func PeriodLockSuccess() PeriodLockResult {
	return PeriodLockResult{OK: true}
}

// PeriodLockFailure builds a refused result with its kind and a
// human-readable reason.
func PeriodLockFailure(kind PeriodLockFailureKind, reason string) PeriodLockResult {
	return PeriodLockResult{OK: false, Kind: kind, Reason: reason}
}
