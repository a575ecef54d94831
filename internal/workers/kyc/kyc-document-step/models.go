// internal/workers/kyc/kyc-document-step/models.go
package kycdocumentstep

import (
	"loan-journey-workers/internal/journey"
	"loan-journey-workers/internal/journey/kyc"
	"loan-journey-workers/internal/workers/journeyjob"
)

// Action is one button on the KYC screen.
type Action string

const (
	ActionSelectMethod Action = "select-method"
	ActionProceed      Action = "proceed"
	ActionUpload       Action = "upload"
	ActionBack         Action = "back"
	ActionRetake       Action = "retake"
	ActionContinue     Action = "continue"
)

type Input struct {
	ApplicationID string       `json:"applicationId"`
	Action        Action       `json:"action"`
	Method        kyc.Method   `json:"method,omitempty"`
	File          *kyc.FileRef `json:"file,omitempty"`
}

type Output struct {
	journeyjob.Output
	Stage            kyc.Stage                      `json:"kycStage"`
	Progress         kyc.Progress                   `json:"kycProgress"`
	Label            *kyc.DocumentLabel             `json:"documentLabel,omitempty"`
	SelectedMethod   kyc.Method                     `json:"selectedMethod"`
	DocumentProgress journey.DocumentUploadProgress `json:"documentProgress"`
	AllUploaded      bool                           `json:"allUploaded"`
}
