package domain

import "fmt"

// Stage enumerates the outreach email sequence. Each stage has independent
// sent/response tracking on a club's StatusRecord.
type Stage string

const (
	StageIntroduction Stage = "introduction"
	StageCheckup      Stage = "checkup"
	StageAcceptance   Stage = "acceptance"
)

// AllStages returns the stages in campaign order.
func AllStages() []Stage {
	return []Stage{StageIntroduction, StageCheckup, StageAcceptance}
}

// ParseStage validates a stage string from an API request or CLI flag.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageIntroduction, StageCheckup, StageAcceptance:
		return Stage(s), nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// Valid reports whether the stage is one of the closed set.
func (s Stage) Valid() bool {
	_, err := ParseStage(string(s))
	return err == nil
}

// StageStatus is the per-stage sub-state on a StatusRecord.
type StageStatus string

const (
	StatusNotContacted     StageStatus = "not_contacted"
	StatusEmailSent        StageStatus = "email_sent"
	StatusPositiveResponse StageStatus = "positive_response"
	StatusNegativeResponse StageStatus = "negative_response"
)

// ResponseKind classifies an inbound reply.
type ResponseKind string

const (
	ResponsePositive ResponseKind = "positive_response"
	ResponseNegative ResponseKind = "negative_response"
)

// ParseResponseKind validates a response kind from a request.
func ParseResponseKind(s string) (ResponseKind, error) {
	switch ResponseKind(s) {
	case ResponsePositive, ResponseNegative:
		return ResponseKind(s), nil
	}
	return "", fmt.Errorf("unknown response kind %q", s)
}

// Status returns the stage sub-state a response of this kind produces.
func (k ResponseKind) Status() StageStatus {
	if k == ResponsePositive {
		return StatusPositiveResponse
	}
	return StatusNegativeResponse
}

// PipelineStage is the single derived value summarizing a club's furthest
// progress through the outreach sequence.
type PipelineStage string

const (
	PipelineNotContacted      PipelineStage = "not_contacted"
	PipelineIntroduction      PipelineStage = "introduction"
	PipelineCheckup           PipelineStage = "checkup"
	PipelineAcceptance        PipelineStage = "acceptance"
	PipelinePartnershipActive PipelineStage = "partnership_active"
	PipelineNotInterested     PipelineStage = "not_interested"
)

// PipelineAfterPositive returns the overall stage a positive response at the
// given email stage advances the club to.
func PipelineAfterPositive(s Stage) PipelineStage {
	switch s {
	case StageIntroduction:
		return PipelineCheckup
	case StageCheckup:
		return PipelineAcceptance
	case StageAcceptance:
		return PipelinePartnershipActive
	}
	return PipelineNotContacted
}

// Priority ranks how urgently a club should be worked.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)
