package infra

import (
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/threema-ch/desktop-launcher/internal/domain"
)

// SpinnerProgress shows a spinner while an install tool runs.
type SpinnerProgress struct {
	s *spinner.Spinner
}

// NewSpinnerProgress creates a spinner writing to w.
func NewSpinnerProgress(w io.Writer) *SpinnerProgress {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithColor("green"), spinner.WithWriter(w))
	return &SpinnerProgress{s: s}
}

func (p *SpinnerProgress) Start(message string) {
	p.s.Suffix = " " + message
	p.s.Start()
}

func (p *SpinnerProgress) Stop() {
	p.s.Stop()
}

// NoopProgress is used when stdout is not interactive.
type NoopProgress struct{}

func (NoopProgress) Start(string) {}
func (NoopProgress) Stop()        {}

// NewProgress returns a spinner on interactive output and a no-op otherwise.
func NewProgress(w io.Writer, interactive bool) domain.Progress {
	if !interactive {
		return NoopProgress{}
	}
	return NewSpinnerProgress(w)
}

var (
	_ domain.Progress = (*SpinnerProgress)(nil)
	_ domain.Progress = NoopProgress{}
)
