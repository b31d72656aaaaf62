package auditlog

// Status is the discrete risk classification of an audit record.
type Status string

const (
	StatusSafe    Status = "Safe"
	StatusWarning Status = "Warning"
	StatusFlagged Status = "Flagged"
)

const (
	MinRiskScore = 0
	MaxRiskScore = 10
)

func (s Status) Valid() bool {
	switch s {
	case StatusSafe, StatusWarning, StatusFlagged:
		return true
	}
	return false
}

// ClassifyRiskScore maps an auditor risk score to a Status. Callers must
// have clamped the score into [0,10] already; within that range the mapping
// is total: 0-3 Safe, 4-6 Warning, 7-10 Flagged.
func ClassifyRiskScore(score int) Status {
	switch {
	case score <= 3:
		return StatusSafe
	case score <= 6:
		return StatusWarning
	default:
		return StatusFlagged
	}
}
