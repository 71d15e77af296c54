package attendance

// ViolationKind classifies why a mutation was rejected.
type ViolationKind string

const (
	ViolationFutureDate            ViolationKind = "FUTURE_DATE"
	ViolationWindowExceeded        ViolationKind = "BACKDATE_WINDOW_EXCEEDED"
	ViolationMissingReason         ViolationKind = "MISSING_BACKDATE_REASON"
	ViolationMissingCompensation   ViolationKind = "MISSING_COMPENSATES_FOR_DATE"
	ViolationFutureCompensation    ViolationKind = "FUTURE_COMPENSATES_FOR_DATE"
	ViolationSelfCompensation      ViolationKind = "INVALID_COMPENSATES_FOR_DATE"
	ViolationDuplicateCompensation ViolationKind = "DUPLICATE_COMPENSATION"
	ViolationInvalidPeriod         ViolationKind = "INVALID_PERIOD"
)

// Violation is a typed validation failure carrying a human-readable
// detail the caller can surface as-is.
type Violation struct {
	Kind   ViolationKind
	Detail string
}

func (v *Violation) Error() string { return v.Detail }

func violationf(kind ViolationKind, detail string) *Violation {
	return &Violation{Kind: kind, Detail: detail}
}
