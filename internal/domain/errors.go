package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds surfaced by the deployment pipeline
var (
	// ErrUnknownNetwork is returned when a network id is not configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrMissingCredential is returned when a signing key cannot be materialized
	ErrMissingCredential = errors.New("missing credential")

	// ErrUnknownVariant is returned for an unregistered constructor signature
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrIncompleteArguments is returned when a required constructor argument is blank
	ErrIncompleteArguments = errors.New("incomplete arguments")

	// ErrArgumentMismatch is returned when arguments do not fit the constructor ABI
	// or differ between deployment and verification
	ErrArgumentMismatch = errors.New("argument mismatch")

	// ErrDeploymentFailed is returned when submitting or confirming a deployment fails
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrTimeout is returned when a stage exceeds its configured timeout
	ErrTimeout = errors.New("timeout")

	// ErrVerificationFailed is returned when the verification backend cannot be
	// reached or rejects the submission
	ErrVerificationFailed = errors.New("verification failed")
)

var (
	// ErrNotFound is returned when a requested ledger entry doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAborted is returned when the operator declines a confirmation prompt
	ErrAborted = errors.New("aborted by operator")

	// ErrInvalidConfig is returned when lvgdeploy.toml cannot be loaded
	ErrInvalidConfig = errors.New("invalid configuration")
)

// kinds lists the pipeline failure kinds in precedence order
var kinds = []error{
	ErrUnknownNetwork,
	ErrMissingCredential,
	ErrUnknownVariant,
	ErrIncompleteArguments,
	ErrArgumentMismatch,
	ErrTimeout,
	ErrDeploymentFailed,
	ErrVerificationFailed,
}

// PipelineError carries a failure kind together with the network it happened
// on and the underlying cause.
type PipelineError struct {
	Kind    error
	Network string
	Detail  string
	Err     error
}

// NewError creates a pipeline error of the given kind
func NewError(kind error, detail string, cause error) *PipelineError {
	return &PipelineError{
		Kind:   kind,
		Detail: detail,
		Err:    cause,
	}
}

func (e *PipelineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Network != "" {
		fmt.Fprintf(&b, " [%s]", e.Network)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As
func (e *PipelineError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// OnNetwork returns a copy of the error tagged with a network id
func (e *PipelineError) OnNetwork(network string) *PipelineError {
	cp := *e
	cp.Network = network
	return &cp
}

// KindOf returns the failure kind of err, or nil if err carries none.
// The outermost PipelineError wins over kinds found deeper in the chain.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// TagNetwork tags err with a network id when it is a pipeline error
func TagNetwork(err error, network string) error {
	var pe *PipelineError
	if errors.As(err, &pe) && pe.Network == "" {
		return pe.OnNetwork(network)
	}
	return err
}
