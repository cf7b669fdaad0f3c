package models

import (
	"time"

	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
)

// VerificationStatus represents the terminal state of a verification run
type VerificationStatus string

const (
	VerificationStatusVerified        VerificationStatus = "VERIFIED"
	VerificationStatusAlreadyVerified VerificationStatus = "ALREADY_VERIFIED"
	VerificationStatusFailed          VerificationStatus = "FAILED"
)

// VerificationResult is the outcome of submitting a deployment to a
// verification backend
type VerificationResult struct {
	Status      VerificationStatus `json:"status" yaml:"status"`
	Address     string             `json:"address" yaml:"address"`
	Reason      string             `json:"reason,omitempty" yaml:"reason,omitempty"`
	ExplorerURL string             `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	GUID        string             `json:"guid,omitempty" yaml:"guid,omitempty"`
	Backend     string             `json:"backend,omitempty" yaml:"backend,omitempty"`
	VerifiedAt  time.Time          `json:"verifiedAt" yaml:"verifiedAt"`
}

// IsVerified reports whether the source is known to match on the explorer
func (r *VerificationResult) IsVerified() bool {
	return r.Status == VerificationStatusVerified || r.Status == VerificationStatusAlreadyVerified
}

// VerificationRequest is what a backend needs to match bytecode to source
type VerificationRequest struct {
	Network     *config.Network
	Address     string
	Artifact    *Artifact
	Args        []ConstructorArg
	EncodedArgs string // hex, no 0x prefix
}
