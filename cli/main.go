package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trebuchet-org/lvgdeploy/internal/cli"
	"github.com/trebuchet-org/lvgdeploy/internal/cli/render"
	"github.com/trebuchet-org/lvgdeploy/internal/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
)

// Set via -ldflags at release time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
	}
	os.Exit(exitCode(err))
}

// exitCode maps a failure kind to the process exit status
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, domain.ErrInvalidConfig) {
		return 2
	}
	switch domain.KindOf(err) {
	case domain.ErrUnknownNetwork,
		domain.ErrMissingCredential,
		domain.ErrUnknownVariant,
		domain.ErrIncompleteArguments,
		domain.ErrArgumentMismatch:
		return 2
	case domain.ErrDeploymentFailed:
		return 3
	case domain.ErrTimeout:
		return 4
	case domain.ErrVerificationFailed:
		return 5
	default:
		return 1
	}
}
