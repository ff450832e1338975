package domain

type OutcomeStatus uint8

const (
	OutcomeAccepted OutcomeStatus = iota
	OutcomeRejected
	OutcomeErrored
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeErrored:
		return "errored"
	}
	return "unknown"
}

// Outcome is the terminal state of one dispatched token.
type Outcome struct {
	Token  string
	Status OutcomeStatus
	Reason string
	// TokenInvalid marks tokens the provider considers permanently dead.
	TokenInvalid bool
}

func Accepted(token string) Outcome {
	return Outcome{Token: token, Status: OutcomeAccepted}
}

func Rejected(token, reason string, invalid bool) Outcome {
	return Outcome{Token: token, Status: OutcomeRejected, Reason: reason, TokenInvalid: invalid}
}

func Errored(token, reason string) Outcome {
	return Outcome{Token: token, Status: OutcomeErrored, Reason: reason}
}

type Failure struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

const (
	ReasonNoToken        = "no token registered"
	ReasonNoValidToken   = "no valid token"
	ReasonNoRecipients   = "no recipients"
	ReasonAllFailed      = "all deliveries failed"
	ReasonMissingOutcome = "missing provider response"
)

// DispatchResult aggregates the outcomes of one fan-out.
type DispatchResult struct {
	Accepted      int       `json:"accepted"`
	RejectedCount int       `json:"rejectedCount"`
	ErroredCount  int       `json:"erroredCount"`
	Skipped       int       `json:"skipped"`
	Chunks        int       `json:"chunks"`
	NoRecipients  bool      `json:"noRecipients"`
	Success       bool      `json:"success"`
	Reason        string    `json:"reason,omitempty"`
	Rejected      []Failure `json:"rejected"`
	Errored       []Failure `json:"errored"`
}

func (r *DispatchResult) Add(outcomes ...Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeAccepted:
			r.Accepted++
		case OutcomeRejected:
			r.RejectedCount++
			r.Rejected = append(r.Rejected, Failure{Token: o.Token, Reason: o.Reason})
		default:
			r.ErroredCount++
			r.Errored = append(r.Errored, Failure{Token: o.Token, Reason: o.Reason})
		}
	}
}

// Attempted is the number of tokens handed to a provider.
func (r *DispatchResult) Attempted() int {
	return r.Accepted + r.RejectedCount + r.ErroredCount
}

// Finalize decides overall success. A single-recipient send with nothing to
// dispatch is reported as a failure with the reason set; group sends with no
// recipients are a successful no-op.
func (r *DispatchResult) Finalize(kind SelectorKind, noToken bool) {
	if r.Rejected == nil {
		r.Rejected = []Failure{}
	}
	if r.Errored == nil {
		r.Errored = []Failure{}
	}
	if r.Attempted() == 0 {
		r.NoRecipients = true
		if kind == SelectUser {
			r.Success = false
			if noToken {
				r.Reason = ReasonNoToken
			} else {
				r.Reason = ReasonNoValidToken
			}
			return
		}
		r.Success = true
		r.Reason = ReasonNoRecipients
		return
	}
	r.Success = r.Accepted > 0
	if !r.Success {
		r.Reason = ReasonAllFailed
	}
}
