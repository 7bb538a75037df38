package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JournalEntriesPosted counts successful Draft -> Posted transitions.
	JournalEntriesPosted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "acctcore",
		Name:      "journal_entries_posted_total",
		Help:      "Total number of journal entries posted",
	})

	// LedgerAppends counts entries appended to the hash chain.
	LedgerAppends = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "acctcore",
		Name:      "ledger_appends_total",
		Help:      "Total number of ledger entries appended to the chain",
	})

	// TamperingDetections counts verification runs that found a compromised chain.
	TamperingDetections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "acctcore",
		Name:      "ledger_tampering_detected_total",
		Help:      "Total number of integrity checks that detected tampering",
	})

	// PeriodTransitions counts successful period close/reopen transitions.
	PeriodTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acctcore",
		Name:      "period_transitions_total",
		Help:      "Total number of accounting period transitions",
	}, []string{"action"})
)
