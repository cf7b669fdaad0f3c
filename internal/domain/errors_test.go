package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineError(t *testing.T) {
	t.Run("matches kind and cause", func(t *testing.T) {
		err := NewError(ErrDeploymentFailed, "send transaction", context.Canceled)

		assert.ErrorIs(t, err, ErrDeploymentFailed)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrTimeout)
	})

	t.Run("message names kind network and cause", func(t *testing.T) {
		err := NewError(ErrTimeout, "waiting for receipt", context.DeadlineExceeded).OnNetwork("fantom")

		assert.Equal(t, "timeout [fantom]: waiting for receipt: context deadline exceeded", err.Error())
	})

	t.Run("tag network keeps existing tag", func(t *testing.T) {
		err := NewError(ErrUnknownNetwork, "", nil).OnNetwork("metis")

		tagged := TagNetwork(err, "fantom")

		var pe *PipelineError
		assert.True(t, errors.As(tagged, &pe))
		assert.Equal(t, "metis", pe.Network)
	})
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "plain error", err: errors.New("boom"), want: nil},
		{name: "pipeline error", err: NewError(ErrIncompleteArguments, "weth", nil), want: ErrIncompleteArguments},
		{
			name: "wrapped pipeline error",
			err:  fmt.Errorf("pipeline: %w", NewError(ErrVerificationFailed, "", nil)),
			want: ErrVerificationFailed,
		},
		{
			name: "outermost kind wins",
			err:  NewError(ErrDeploymentFailed, "", NewError(ErrTimeout, "", nil)),
			want: ErrDeploymentFailed,
		},
		{name: "bare sentinel", err: fmt.Errorf("x: %w", ErrMissingCredential), want: ErrMissingCredential},
		{
			name: "joined errors use first pipeline error",
			err:  errors.Join(NewError(ErrTimeout, "", nil), NewError(ErrDeploymentFailed, "", nil)),
			want: ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
