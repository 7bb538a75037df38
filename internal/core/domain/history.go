package domain

import "time"

// PeriodLockAction identifies a period locking transition.
type PeriodLockAction string

const (
	PeriodActionClose  PeriodLockAction = "CLOSE"
	PeriodActionReopen PeriodLockAction = "REOPEN"
)

// PeriodLockHistory is one record of the append-only period transition log.
type PeriodLockHistory struct {
	HistoryID   string           `json:"historyID"`
	PeriodID    string           `json:"periodID"`
	Action      PeriodLockAction `json:"action"`
	PerformedBy string           `json:"performedBy"`
	PerformedAt time.Time        `json:"performedAt"`
	Reason      string           `json:"reason"`
}
