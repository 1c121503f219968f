package services

// Decision is the outcome of running one candidate driver through the
// matcher pipeline. Only DecisionRejectDistance and DecisionOffer lead to a
// ledger write.
type Decision int

const (
	// DecisionContinue means the screening stage passed and the ledger stage must run.
	DecisionContinue Decision = iota
	DecisionSkipMissing
	DecisionSkipVendor
	DecisionRejectDistance
	DecisionSkipPending
	DecisionSkipRejected
	DecisionSkipCapacity
	// DecisionSkipBusy is reported when the pending write lost a race with another sweep.
	DecisionSkipBusy
	DecisionOffer
)

func getDecisionStrings() map[Decision]string {
	return map[Decision]string{
		DecisionContinue:       "continue",
		DecisionSkipMissing:    "skip_missing",
		DecisionSkipVendor:     "skip_vendor",
		DecisionRejectDistance: "reject_distance",
		DecisionSkipPending:    "skip_pending",
		DecisionSkipRejected:   "skip_rejected",
		DecisionSkipCapacity:   "skip_capacity",
		DecisionSkipBusy:       "skip_busy",
		DecisionOffer:          "offer",
	}
}

func (d Decision) String() string {
	if s, ok := getDecisionStrings()[d]; ok {
		return s
	}
	return "unknown"
}

// IsSkip reports a disqualification that leaves no trace in the ledger.
func (d Decision) IsSkip() bool {
	switch d {
	case DecisionSkipMissing, DecisionSkipVendor, DecisionSkipPending,
		DecisionSkipRejected, DecisionSkipCapacity, DecisionSkipBusy:
		return true
	default:
		return false
	}
}
