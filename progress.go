// progress.go -- progress reporting collaborator for long cascade builds
//
// (c) Sudhi Herle 2018
//
// License GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package mph

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Progress is the collaborator the cascade builder reports to while it
// works. Inc is called concurrently from every worker goroutine with its
// own tid (0..nthreads-1); the implementation is responsible for
// aggregating across threads.
type Progress interface {
	Init(totalTicks uint64, label string, nthreads int)
	Inc(ticks uint64, tid int)
	FinishThreaded()
}

// noopProgress discards every call; it's what a Cascade build uses when
// the caller doesn't ask for progress reporting.
type noopProgress struct{}

func (noopProgress) Init(uint64, string, int) {}
func (noopProgress) Inc(uint64, int)          {}
func (noopProgress) FinishThreaded()          {}

// TerminalProgress prints a periodically-updated percentage/ETA line to
// an io.Writer (os.Stderr by default), in the same "timer mode" style as
// the BooPHF C++ progress bar.
type TerminalProgress struct {
	w         io.Writer
	label     string
	start     time.Time
	todo      uint64
	steps     uint64
	nthreads  int
	done      []uint64
	partial   []uint64
	aggregate uint64
}

// NewTerminalProgress returns a Progress that writes to os.Stderr.
func NewTerminalProgress() *TerminalProgress {
	return &TerminalProgress{w: os.Stderr}
}

func (p *TerminalProgress) Init(totalTicks uint64, label string, nthreads int) {
	if nthreads < 1 {
		nthreads = 1
	}
	p.label = label
	p.start = time.Now()
	p.todo = totalTicks
	p.nthreads = nthreads
	p.done = make([]uint64, nthreads)
	p.partial = make([]uint64, nthreads)
	p.aggregate = 0

	const subdiv = 1000
	p.steps = totalTicks / subdiv
	if p.steps == 0 {
		p.steps = 1
	}
}

func (p *TerminalProgress) Inc(ticks uint64, tid int) {
	if tid < 0 || tid >= p.nthreads {
		return
	}
	p.partial[tid] += ticks
	p.done[tid] += ticks

	for p.partial[tid] >= p.steps {
		var total uint64
		for _, d := range p.done {
			total += d
		}
		p.print(total)
		p.partial[tid] -= p.steps
	}
}

func (p *TerminalProgress) FinishThreaded() {
	var total uint64
	for _, d := range p.done {
		total += d
	}
	p.print(total)
	fmt.Fprintln(p.w)
}

func (p *TerminalProgress) print(current uint64) {
	elapsed := time.Since(p.start)
	var remaining time.Duration
	if secs := elapsed.Seconds(); secs > 0 && p.todo > current {
		speed := float64(current) / secs
		if speed > 0 {
			remaining = time.Duration(float64(p.todo-current)/speed) * time.Second
		}
	}

	var pct float64
	if p.todo > 0 {
		pct = 100 * float64(current) / float64(p.todo)
	}

	fmt.Fprintf(p.w, "\r[%s]  %-5.3g%%   elapsed: %s   remaining: %s",
		p.label, pct, fmtDuration(elapsed), fmtDuration(remaining))
}

func fmtDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := d.Seconds() - float64(m)*60
	return fmt.Sprintf("%3d min %-2.0f sec", m, s)
}
