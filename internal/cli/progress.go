package cli

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// progressBar renders one go-pretty tracker per extractor loop.
type progressBar struct {
	out      io.Writer
	pw       progress.Writer
	tracker  *progress.Tracker
	rendered chan struct{}
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{out: out}
}

func (p *progressBar) Start(label string, total int) {
	pw := progress.NewWriter()
	pw.SetOutputWriter(p.out)
	pw.SetAutoStop(true)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Percentage = true

	p.tracker = &progress.Tracker{
		Message: label,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(p.tracker)
	p.pw = pw

	rendered := make(chan struct{})
	p.rendered = rendered
	go func() {
		pw.Render()
		close(rendered)
	}()
}

func (p *progressBar) Step() {
	if p.tracker != nil {
		p.tracker.Increment(1)
	}
}

// Done blocks until the renderer has written its last frame, so the output
// writer is free for other users once it returns.
func (p *progressBar) Done() {
	if p.pw == nil {
		return
	}
	p.tracker.MarkAsDone()
	<-p.rendered
	p.pw, p.tracker, p.rendered = nil, nil, nil
}
