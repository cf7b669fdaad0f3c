package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/lvgdeploy/internal/domain"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/config"
	"github.com/trebuchet-org/lvgdeploy/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// RunPipelineParams contains parameters for a multi-network deployment
type RunPipelineParams struct {
	Variant   string
	Networks  []string
	Overrides map[string]string // --arg name=value, applied on every network
	Verify    bool
	DryRun    bool
}

// NetworkOutcome is the result of one network's pipeline
type NetworkOutcome struct {
	NetworkID    string
	Plan         *models.DeploymentPlan
	Record       *models.DeploymentRecord
	Verification *models.VerificationResult
	Err          error
}

// RunPipelineResult contains the outcome of every requested network in the
// order they were requested
type RunPipelineResult struct {
	Variant  models.Variant
	DryRun   bool
	Outcomes []*NetworkOutcome
}

// RunPipeline deploys and optionally verifies the contract on several
// networks. Every network is validated before any transaction is sent; the
// per-network pipelines then run in parallel and never cancel each other.
type RunPipeline struct {
	config    *config.RuntimeConfig
	registry  NetworkRegistry
	deploy    *DeployContract
	verify    *VerifyDeployment
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewRunPipeline creates a new pipeline use case
func NewRunPipeline(
	cfg *config.RuntimeConfig,
	registry NetworkRegistry,
	deploy *DeployContract,
	verify *VerifyDeployment,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunPipeline {
	return &RunPipeline{
		config:    cfg,
		registry:  registry,
		deploy:    deploy,
		verify:    verify,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "RunPipeline"),
	}
}

type pipelineJob struct {
	outcome    *NetworkOutcome
	netCtx     *models.NetworkContext
	descriptor *models.ContractDescriptor
}

// Run executes the pipeline. The returned error joins every network's
// failure; the result is returned alongside it.
func (uc *RunPipeline) Run(ctx context.Context, params RunPipelineParams) (*RunPipelineResult, error) {
	if _, err := models.LookupVariant(params.Variant); err != nil {
		return nil, err
	}

	networks := lo.Uniq(lo.Map(params.Networks, func(id string, _ int) string {
		return strings.ToLower(strings.TrimSpace(id))
	}))
	if len(networks) == 0 {
		return nil, domain.NewError(domain.ErrUnknownNetwork, "no networks given", nil)
	}

	jobs, err := uc.prepare(ctx, params, networks)
	if err != nil {
		return nil, err
	}

	result := &RunPipelineResult{
		Variant: jobs[0].descriptor.Variant(),
		DryRun:  params.DryRun,
		Outcomes: lo.Map(jobs, func(job *pipelineJob, _ int) *NetworkOutcome {
			return job.outcome
		}),
	}

	if params.DryRun {
		return result, nil
	}

	confirmed, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %s(%s) to %s",
		uc.config.Contract.Name, result.Variant, strings.Join(networks, ", ")))
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, domain.ErrAborted
	}

	var g errgroup.Group
	for _, job := range jobs {
		g.Go(func() error {
			uc.runNetwork(ctx, job, params.Verify)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			errs = append(errs, outcome.Err)
		}
	}
	return result, errors.Join(errs...)
}

// prepare resolves every network and plans every deployment. Any failure
// aborts the whole run before a transaction is sent.
func (uc *RunPipeline) prepare(ctx context.Context, params RunPipelineParams, networks []string) ([]*pipelineJob, error) {
	var errs []error
	jobs := make([]*pipelineJob, 0, len(networks))

	for _, id := range networks {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageResolving, Network: id})

		network, err := uc.registry.Lookup(id)
		if err != nil {
			errs = append(errs, domain.TagNetwork(err, id))
			continue
		}

		job := &pipelineJob{outcome: &NetworkOutcome{NetworkID: network.Name}}

		if !params.DryRun {
			job.netCtx, err = uc.registry.Resolve(ctx, network.Name)
			if err != nil {
				errs = append(errs, domain.TagNetwork(err, network.Name))
				continue
			}
		}

		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StagePlanning, Network: network.Name})

		job.descriptor, err = DescribeContract(uc.config.Contract, network, params.Variant, params.Overrides)
		if err != nil {
			errs = append(errs, domain.TagNetwork(err, network.Name))
			continue
		}

		job.outcome.Plan, err = uc.deploy.Plan(ctx, job.descriptor)
		if err != nil {
			errs = append(errs, domain.TagNetwork(err, network.Name))
			continue
		}

		jobs = append(jobs, job)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return jobs, nil
}

func (uc *RunPipeline) runNetwork(ctx context.Context, job *pipelineJob, verify bool) {
	outcome := job.outcome

	record, err := uc.deploy.Execute(ctx, job.netCtx, outcome.Plan)
	if err != nil {
		uc.fail(ctx, outcome, err)
		return
	}
	outcome.Record = record

	if verify {
		result, err := uc.verify.Verify(ctx, record, job.descriptor)
		if err != nil {
			uc.fail(ctx, outcome, err)
			return
		}
		outcome.Verification = result
		if err := VerificationError(outcome.NetworkID, result); err != nil {
			uc.fail(ctx, outcome, err)
			return
		}
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageCompleted,
		Network:  outcome.NetworkID,
		Message:  "done",
		Metadata: outcome,
	})
}

func (uc *RunPipeline) fail(ctx context.Context, outcome *NetworkOutcome, err error) {
	outcome.Err = err
	uc.log.ErrorContext(ctx, "pipeline failed", "network", outcome.NetworkID, "error", err)
	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:    StageFailed,
		Network:  outcome.NetworkID,
		Message:  err.Error(),
		Metadata: outcome,
	})
}
