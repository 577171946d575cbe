package types

// ScreeningReason explains why a posting was blocked, or ReasonNone when it
// was allowed through.
type ScreeningReason string

const (
	ReasonNone          ScreeningReason = "none"
	ReasonNoSponsorship ScreeningReason = "no_sponsorship"
	ReasonOtherBlocker  ScreeningReason = "other_blocker"
)

// ScreeningResult is the outcome of the pre-flight screen on a job posting.
type ScreeningResult struct {
	Allowed bool            `json:"allowed"`
	Reason  ScreeningReason `json:"reason"`
	Detail  string          `json:"detail,omitempty"`
}

// TerminalStatus maps a blocked screening result to the workflow status the
// run should end in. Allowed results have no terminal status.
func (s ScreeningResult) TerminalStatus() (Status, bool) {
	if s.Allowed {
		return "", false
	}
	switch s.Reason {
	case ReasonNoSponsorship:
		return StatusNoSponsorship, true
	default:
		return StatusScreeningBlocked, true
	}
}
