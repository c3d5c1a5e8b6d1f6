package transfer

// Decision is the payer's verdict on a pending transfer.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)
