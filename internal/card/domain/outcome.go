package domain

// State is a capture pipeline state.
type State string

const (
	StateCapturing  State = "capturing"
	StateValidating State = "validating"
	StateTokenizing State = "tokenizing"
	StatePersisting State = "persisting"
	StateProcessing State = "processing"
	StateDone       State = "done"
	StateAborted    State = "aborted"
)

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateAborted
}

// AbortReason tags why a pipeline run ended in StateAborted.
type AbortReason string

const (
	ReasonNoData            AbortReason = "no_data"
	ReasonInvalidData       AbortReason = "invalid_data"
	ReasonCryptoFailure     AbortReason = "crypto_failure"
	ReasonStorageFailure    AbortReason = "storage_failure"
	ReasonProcessingFailure AbortReason = "processing_failure"
)

// IsClientError reports whether the reason is attributable to the captured input
// rather than to the server.
func (r AbortReason) IsClientError() bool {
	return r == ReasonNoData || r == ReasonInvalidData
}

// SettlementStatus is the business answer of the payment processor.
type SettlementStatus string

const (
	SettlementAccepted SettlementStatus = "accepted"
	SettlementDeclined SettlementStatus = "declined"
)

// Outcome is the terminal result of one capture.
//
// A Done outcome always carries Token and Settlement. An Aborted outcome carries
// Reason, and Token only when the record was already persisted
// (ReasonProcessingFailure). It never carries card data.
type Outcome struct {
	State      State
	Reason     AbortReason
	Token      Token
	Settlement SettlementStatus
}

// Done builds a successful outcome.
func Done(token Token, settlement SettlementStatus) Outcome {
	return Outcome{State: StateDone, Token: token, Settlement: settlement}
}

// Aborted builds an aborted outcome.
func Aborted(reason AbortReason) Outcome {
	return Outcome{State: StateAborted, Reason: reason}
}

// IsDone reports whether the run reached StateDone.
func (o Outcome) IsDone() bool {
	return o.State == StateDone
}
