package auditlog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RiskAssessment is the auditor's verdict on a single worker response.
// Stored as a jsonb column on the audit record.
type RiskAssessment struct {
	RiskScore             int      `json:"risk_score"`
	HallucinationDetected bool     `json:"hallucination_detected"`
	PIIDetected           bool     `json:"pii_detected"`
	ToxicContentDetected  bool     `json:"toxic_content_detected"`
	Details               string   `json:"details"`
	Confidence            *float64 `json:"confidence,omitempty"`
}

func (a RiskAssessment) Validate() error {
	if a.RiskScore < MinRiskScore || a.RiskScore > MaxRiskScore {
		return fmt.Errorf("risk score must be between %d and %d, got %d", MinRiskScore, MaxRiskScore, a.RiskScore)
	}
	if a.Details == "" {
		return fmt.Errorf("assessment details are required")
	}
	if a.Confidence != nil && (*a.Confidence < 0 || *a.Confidence > 1) {
		return fmt.Errorf("confidence must be between 0 and 1, got %f", *a.Confidence)
	}
	return nil
}

func (a RiskAssessment) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *RiskAssessment) Scan(value interface{}) error {
	if value == nil {
		return fmt.Errorf("risk assessment column is null")
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for risk assessment: %T", value)
	}
	return json.Unmarshal(data, a)
}
