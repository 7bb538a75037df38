package domain

import (
	"fmt"
	"time"
)

// TamperingResult localizes chain verification failures to entry indices.
type TamperingResult struct {
	HasTampering    bool
	TamperedIndices []int
	Details         []string
}

// IntegrityStatus summarises the state of a verified chain.
type IntegrityStatus string

const (
	IntegrityEmpty       IntegrityStatus = "EMPTY"
	IntegrityValid       IntegrityStatus = "VALID"
	IntegrityCompromised IntegrityStatus = "COMPROMISED"
)

// IntegrityReport is the outcome of a full chain verification run.
type IntegrityReport struct {
	Status          IntegrityStatus
	TotalEntries    int
	TamperedEntries int
	ChainLength     int
	FirstEntryHash  string
	LastEntryHash   string
	Details         []string
	VerifiedAt      time.Time
}

// VerifyChain reports whether an ordered sequence of ledger entries forms an
// intact chain: every entry passes self-integrity, sequence numbers run
// contiguously from 1, the first entry carries the genesis sentinel, and each
// entry's previous-hash equals its predecessor's hash. The input is taken in
// the order given; a reordered chain fails rather than being silently
// re-sorted.
func VerifyChain(entries []*LedgerEntry) bool {
	for i, entry := range entries {
		if !entry.VerifyIntegrity() {
			return false
		}
		if entry.SequenceNumber() != int64(i+1) {
			return false
		}
		if i == 0 {
			if entry.PreviousHash() != GenesisHash {
				return false
			}
			continue
		}
		if entry.PreviousHash() != entries[i-1].Hash() {
			return false
		}
	}
	return true
}

// DetectTampering is VerifyChain with localization: self-integrity and link
// checks are evaluated independently for every index, and every failing index
// is collected instead of stopping at the first.
func DetectTampering(entries []*LedgerEntry) TamperingResult {
	result := TamperingResult{}
	flagged := make(map[int]struct{})

	flag := func(i int, detail string) {
		result.HasTampering = true
		if _, seen := flagged[i]; !seen {
			flagged[i] = struct{}{}
			result.TamperedIndices = append(result.TamperedIndices, i)
		}
		result.Details = append(result.Details, detail)
	}

	for i, entry := range entries {
		if !entry.VerifyIntegrity() {
			flag(i, fmt.Sprintf("entry %d (seq %d) has an invalid hash", i, entry.SequenceNumber()))
		}
		if entry.SequenceNumber() != int64(i+1) {
			flag(i, fmt.Sprintf("entry %d has sequence %d, expected %d", i, entry.SequenceNumber(), i+1))
		}
		if i == 0 {
			if entry.PreviousHash() != GenesisHash {
				flag(i, "first entry does not carry the genesis sentinel")
			}
			continue
		}
		if entry.PreviousHash() != entries[i-1].Hash() {
			flag(i, fmt.Sprintf("broken chain at entry %d: previous-hash mismatch", i))
		}
	}
	return result
}

// LastValidEntry returns the last entry before the first self-integrity
// failure, or nil when the chain is empty or corrupted from the start.
func LastValidEntry(entries []*LedgerEntry) *LedgerEntry {
	for i, entry := range entries {
		if !entry.VerifyIntegrity() {
			if i == 0 {
				return nil
			}
			return entries[i-1]
		}
	}
	if len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1]
}

// BuildIntegrityReport runs tamper detection over a chain and summarises it.
func BuildIntegrityReport(entries []*LedgerEntry) IntegrityReport {
	report := IntegrityReport{
		TotalEntries: len(entries),
		VerifiedAt:   time.Now().UTC(),
	}
	if len(entries) == 0 {
		report.Status = IntegrityEmpty
		return report
	}

	tampering := DetectTampering(entries)
	if tampering.HasTampering {
		report.Status = IntegrityCompromised
		report.TamperedEntries = len(tampering.TamperedIndices)
		report.Details = tampering.Details
		return report
	}

	report.Status = IntegrityValid
	report.ChainLength = len(entries)
	report.FirstEntryHash = entries[0].Hash()
	report.LastEntryHash = entries[len(entries)-1].Hash()
	return report
}
