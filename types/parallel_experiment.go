package types

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
	"golang.org/x/sync/errgroup"
)

// TERMINAL PRINTER

// TerminalPrinter refreshes one status line per experiment running in parallel
type TerminalPrinter struct {
	outputs       []*ParallelOutput
	printerCtx    context.Context
	printerCancel context.CancelFunc
	frequency     time.Duration
	done          chan struct{}

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(ctx context.Context, outputs []*ParallelOutput, frequency time.Duration) *TerminalPrinter {
	printerCtx, cancel := context.WithCancel(ctx)
	writer := uilive.New()
	writers := make([]io.Writer, 0, len(outputs))
	for i := 1; i < len(outputs); i++ {
		writers = append(writers, writer.Newline())
	}

	return &TerminalPrinter{
		outputs:       outputs,
		printerCtx:    printerCtx,
		printerCancel: cancel,
		frequency:     frequency,
		done:          make(chan struct{}),

		writer:  writer,
		writers: writers,
	}
}

func (p *TerminalPrinter) Start() {
	go func() {
		defer close(p.done)
		for {
			select {
			case <-p.printerCtx.Done():
				p.print()
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop prints the final status lines and waits for the printer to exit
func (p *TerminalPrinter) Stop() {
	p.printerCancel()
	<-p.done
}

func (p *TerminalPrinter) print() {
	for i, output := range p.outputs {
		s := output.Get()
		if i == 0 {
			fmt.Fprint(p.writer, s+"\n")
		} else {
			fmt.Fprint(p.writers[i-1], s+"\n")
		}
	}
	p.writer.Flush()
}

// PARALLEL OUTPUT

// ParallelOutput holds the last status line of one experiment
type ParallelOutput struct {
	mu        sync.Mutex
	printable string
}

func NewParallelOutput(initial string) *ParallelOutput {
	return &ParallelOutput{printable: initial}
}

// Set the output string (blocking)
func (p *ParallelOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Try to set the output string (non-blocking), the training loop
// never waits on the printer
func (p *ParallelOutput) TrySet(s string) bool {
	if !p.mu.TryLock() {
		return false
	}
	defer p.mu.Unlock()
	p.printable = s
	return true
}

// Get the output string (blocking)
func (p *ParallelOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}

// summaryCollector keeps the summaries of one experiment so that the
// shared analyzers can be fed after the parallel runs are over
type summaryCollector struct {
	summaries []*EpisodeSummary
}

var _ Analyzer = &summaryCollector{}

func (s *summaryCollector) Analyze(_ int, _ string, summary *EpisodeSummary) {
	s.summaries = append(s.summaries, summary)
}

func (s *summaryCollector) DataSet() DataSet {
	return s.summaries
}

func (s *summaryCollector) Reset() {
	s.summaries = nil
}

// lockedSink serializes the records of experiments running in parallel
type lockedSink struct {
	lock *sync.Mutex
	sink EpisodeSink
}

func (l *lockedSink) Record(ctx context.Context, s *EpisodeSummary) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.sink.Record(ctx, s)
}

// runParallel runs every experiment of a run with at most
// Parallelism of them at the same time and returns the summaries of
// each, in experiment order
func (c *Comparison) runParallel(ctx context.Context, run int) ([][]*EpisodeSummary, error) {
	lock := new(sync.Mutex)
	sinks := make([]EpisodeSink, len(c.cConfig.Sinks))
	for i, s := range c.cConfig.Sinks {
		sinks[i] = &lockedSink{lock: lock, sink: s}
	}

	outputs := make([]*ParallelOutput, len(c.Experiments))
	for i, e := range c.Experiments {
		outputs[i] = NewParallelOutput(fmt.Sprintf("Exp:%s, Pending", e.Name))
	}
	var printer *TerminalPrinter
	if c.cConfig.Progress {
		printer = NewTerminalPrinter(ctx, outputs, time.Second)
		printer.Start()
	}

	collected := make([][]*EpisodeSummary, len(c.Experiments))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.cConfig.Parallelism)
	for i, e := range c.Experiments {
		i, e := i, e
		g.Go(func() error {
			collector := &summaryCollector{}
			rCfg := c.prepareRunConfig(run)
			rCfg.Analyzers = []Analyzer{collector}
			rCfg.Sinks = sinks
			rCfg.Progress = false
			rCfg.Output = outputs[i]
			if _, err := e.Run(gCtx, rCfg); err != nil {
				outputs[i].Set(fmt.Sprintf("Exp:%s, Failed: %s", e.Name, err))
				return fmt.Errorf("experiment %s: %w", e.Name, err)
			}
			collected[i] = collector.summaries
			return nil
		})
	}
	err := g.Wait()
	if printer != nil {
		printer.Stop()
	}
	return collected, err
}
