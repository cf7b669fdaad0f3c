package progress

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/lvgdeploy/internal/usecase"
)

// PipelineProgress reports per-network pipeline progress. Pipelines run in
// parallel, so a single spinner shows every network that is still waiting.
type PipelineProgress struct {
	out         io.Writer
	interactive bool

	mu        sync.Mutex
	spinner   *spinner.Spinner
	waiting   map[string]string // network -> message
	startTime time.Time
}

// NewPipelineProgress creates a progress reporter writing to out. When
// interactive is false every event is printed as a plain line.
func NewPipelineProgress(out io.Writer, interactive bool) *PipelineProgress {
	return &PipelineProgress{
		out:         out,
		interactive: interactive,
		waiting:     make(map[string]string),
		startTime:   time.Now(),
	}
}

// OnProgress handles progress events
func (p *PipelineProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive {
		if event.Message != "" {
			fmt.Fprintf(p.out, "%s %s\n", prefix(event.Network), event.Message)
		}
		return
	}

	if event.Spinner {
		p.waiting[event.Network] = event.Message
		p.updateSpinner()
		return
	}

	delete(p.waiting, event.Network)
	p.pause(func() {
		if event.Message != "" {
			icon, c := stageStyle(event.Stage)
			c.Fprintf(p.out, "%s %s %s\n", icon, prefix(event.Network), event.Message)
		}
		if event.Stage == usecase.StageCompleted && len(p.waiting) == 0 {
			color.New(color.Faint).Fprintf(p.out, "  finished in %s\n", time.Since(p.startTime).Round(time.Millisecond))
		}
	})
	p.updateSpinner()
}

// Info prints an info message
func (p *PipelineProgress) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pause(func() {
		color.New(color.FgCyan).Fprintln(p.out, message)
	})
}

// Error prints an error message
func (p *PipelineProgress) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pause(func() {
		color.New(color.FgRed).Fprintln(p.out, message)
	})
}

// pause stops the spinner while fn prints and restarts it afterwards.
// Caller holds mu.
func (p *PipelineProgress) pause(fn func()) {
	wasActive := p.spinner != nil && p.spinner.Active()
	if wasActive {
		p.spinner.Stop()
	}

	fn()

	if wasActive && len(p.waiting) > 0 {
		p.spinner.Start()
	}
}

// updateSpinner shows every waiting network. Caller holds mu.
func (p *PipelineProgress) updateSpinner() {
	if len(p.waiting) == 0 {
		if p.spinner != nil && p.spinner.Active() {
			p.spinner.Stop()
		}
		return
	}

	if p.spinner == nil {
		p.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(p.out))
		p.spinner.HideCursor = false
		_ = p.spinner.Color("cyan", "bold")
	}

	networks := make([]string, 0, len(p.waiting))
	for network := range p.waiting {
		networks = append(networks, network)
	}
	sort.Strings(networks)

	parts := make([]string, 0, len(networks))
	for _, network := range networks {
		parts = append(parts, fmt.Sprintf("%s %s", prefix(network), p.waiting[network]))
	}
	p.spinner.Suffix = " " + strings.Join(parts, " | ")

	if !p.spinner.Active() {
		p.spinner.Start()
	}
}

func prefix(network string) string {
	if network == "" {
		return ""
	}
	return "[" + network + "]"
}

func stageStyle(stage usecase.ExecutionStage) (string, *color.Color) {
	switch stage {
	case usecase.StageCompleted:
		return "✓", color.New(color.FgGreen)
	case usecase.StageFailed:
		return "✗", color.New(color.FgRed)
	default:
		return "•", color.New(color.FgWhite)
	}
}

// Ensure PipelineProgress implements ProgressSink
var _ usecase.ProgressSink = (*PipelineProgress)(nil)
