package auditlog_test

import (
	"testing"

	"github.com/agentaudit/auditgate/pkg/domain/auditlog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAssessment() auditlog.RiskAssessment {
	return auditlog.RiskAssessment{
		RiskScore: 2,
		Details:   "no issues found",
	}
}

func TestNewAuditLog_AssignsID(t *testing.T) {
	log := auditlog.NewAuditLog("q", "r", validAssessment(), auditlog.StatusSafe)
	assert.NotEqual(t, uuid.Nil, log.ID)

	other := auditlog.NewAuditLog("q", "r", validAssessment(), auditlog.StatusSafe)
	assert.NotEqual(t, log.ID, other.ID)
}

func TestAuditLog_Validate(t *testing.T) {
	log := auditlog.NewAuditLog("what is go", "a language", validAssessment(), auditlog.StatusSafe)
	require.NoError(t, log.Validate())

	empty := auditlog.NewAuditLog("   ", "a language", validAssessment(), auditlog.StatusSafe)
	assert.Error(t, empty.Validate())

	noResponse := auditlog.NewAuditLog("what is go", " ", validAssessment(), auditlog.StatusSafe)
	assert.Error(t, noResponse.Validate())

	badStatus := auditlog.NewAuditLog("what is go", "a language", validAssessment(), auditlog.Status("Unknown"))
	assert.Error(t, badStatus.Validate())
}

func TestRiskAssessment_Validate(t *testing.T) {
	assert.NoError(t, validAssessment().Validate())

	outOfRange := validAssessment()
	outOfRange.RiskScore = 11
	assert.Error(t, outOfRange.Validate())

	negative := validAssessment()
	negative.RiskScore = -1
	assert.Error(t, negative.Validate())

	noDetails := validAssessment()
	noDetails.Details = ""
	assert.Error(t, noDetails.Validate())

	badConfidence := validAssessment()
	confidence := 1.5
	badConfidence.Confidence = &confidence
	assert.Error(t, badConfidence.Validate())
}

func TestRiskAssessment_ScanRoundTrip(t *testing.T) {
	confidence := 0.9
	original := auditlog.RiskAssessment{
		RiskScore:            8,
		ToxicContentDetected: true,
		Details:              "violent content",
		Confidence:           &confidence,
	}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded auditlog.RiskAssessment
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, original, decoded)
}
