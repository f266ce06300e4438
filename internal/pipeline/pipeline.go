package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sant0-9/packet/internal/alias"
	"github.com/sant0-9/packet/internal/document"
)

// Stage represents a pipeline stage
type Stage int

const (
	StageDiscovering Stage = iota
	StageParsing
	StageCollating
	StageWriting
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageDiscovering:
		return "Discovering"
	case StageParsing:
		return "Parsing"
	case StageCollating:
		return "Collating"
	case StageWriting:
		return "Writing"
	case StageDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Stages lists the stages a run reports, in order.
var Stages = []Stage{StageDiscovering, StageParsing, StageCollating, StageWriting}

// Progress represents pipeline progress
type Progress struct {
	Stage       Stage
	StageIndex  int
	TotalStages int
	ItemIndex   int
	TotalItems  int
	Message     string
}

// ErrDuplicateLabel is returned when two inputs map to the same label.
var ErrDuplicateLabel = errors.New("duplicate document label")

// Source lists and reads the documents of one run.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Open(path string) (*document.Document, error)
}

// Sink persists one report and returns where it was written.
type Sink interface {
	Write(ctx context.Context, r Report) (string, error)
}

// Finisher is implemented by sinks that record a summary of the run once
// every report is written.
type Finisher interface {
	Finish(ctx context.Context, res *Result) error
}

// Options configures a run.
type Options struct {
	// AliasFile is optional; a missing file means no aliases.
	AliasFile string
	// Workers bounds concurrent document parsing. Zero means NumCPU.
	Workers int
	// MetricsFile receives Prometheus text metrics when set.
	MetricsFile string
	Logger      *slog.Logger
}

// Result contains pipeline output
type Result struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Labels     []string
	Reports    []Report
	// Outputs maps respondent to the written file.
	Outputs map[string]string
	Stats   Stats
	Aliases int
}

// Pipeline runs discovery, parsing, collation and writing.
type Pipeline struct {
	opts       Options
	source     Source
	sink       Sink
	metrics    *Metrics
	logger     *slog.Logger
	onProgress func(Progress)
}

// New creates a pipeline reading from src and writing to sink.
func New(opts Options, src Source, sink Sink) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		opts:    opts,
		source:  src,
		sink:    sink,
		metrics: NewMetrics(),
		logger:  logger,
	}
}

// SetProgressCallback sets the progress callback
func (p *Pipeline) SetProgressCallback(fn func(Progress)) {
	p.onProgress = fn
}

func (p *Pipeline) progress(pr Progress) {
	pr.StageIndex = int(pr.Stage)
	pr.TotalStages = len(Stages)
	if p.onProgress != nil {
		p.onProgress(pr)
	}
}

func (p *Pipeline) workers() int {
	if p.opts.Workers > 0 {
		return p.opts.Workers
	}
	return runtime.NumCPU()
}

// Run executes the whole batch. Any discovery, alias or read failure aborts
// the run before a single report is written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Outputs:   make(map[string]string),
	}
	log := p.logger.With("run_id", res.RunID)

	// Stage 1: Discovery
	p.progress(Progress{Stage: StageDiscovering, Message: "Looking for documents..."})

	paths, err := p.source.List(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("discovered documents", "count", len(paths))
	if len(paths) == 0 {
		log.Warn("no documents matched; nothing to collate")
	}

	aliases := alias.Map{}
	if p.opts.AliasFile != "" {
		aliases, err = alias.LoadFile(p.opts.AliasFile)
		if err != nil {
			return nil, err
		}
	}
	res.Aliases = aliases.Len()
	log.Debug("loaded aliases", "path", p.opts.AliasFile, "count", aliases.Len())

	// Stage 2: Parsing
	records, err := p.parseAll(ctx, paths)
	if err != nil {
		return nil, err
	}
	res.Labels = Labels(records)

	// Stage 3: Collation
	p.progress(Progress{Stage: StageCollating, Message: "Collating answers..."})

	history := Collate(records, aliases)
	res.Reports = Assemble(history)
	res.Stats = history.Stats
	log.Info("collated answers",
		"respondents", history.Respondents(),
		"kept", history.Stats.Kept,
		"excluded_respondent", history.Stats.ExcludedRespondent,
		"excluded_answer", history.Stats.ExcludedAnswer)

	// Stage 4: Writing
	for i, r := range res.Reports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.progress(Progress{
			Stage:      StageWriting,
			ItemIndex:  i + 1,
			TotalItems: len(res.Reports),
			Message:    fmt.Sprintf("Writing %s (%d/%d)", r.Respondent, i+1, len(res.Reports)),
		})

		path, err := p.sink.Write(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("write report for %s: %w", r.Respondent, err)
		}
		res.Outputs[r.Respondent] = path
		log.Debug("wrote report", "respondent", r.Respondent, "entries", len(r.Entries), "path", path)
	}

	res.FinishedAt = time.Now()

	if f, ok := p.sink.(Finisher); ok {
		if err := f.Finish(ctx, res); err != nil {
			return nil, fmt.Errorf("finish output: %w", err)
		}
	}

	p.metrics.Observe(res)
	if p.opts.MetricsFile != "" {
		if err := p.metrics.WriteFile(p.opts.MetricsFile); err != nil {
			return nil, fmt.Errorf("write metrics %s: %w", p.opts.MetricsFile, err)
		}
	}

	p.progress(Progress{Stage: StageDone, Message: "Processing complete"})
	log.Info("run complete", "reports", len(res.Reports), "elapsed", res.FinishedAt.Sub(res.StartedAt))

	return res, nil
}

func (p *Pipeline) parseAll(ctx context.Context, paths []string) (map[string]Record, error) {
	p.progress(Progress{
		Stage:      StageParsing,
		TotalItems: len(paths),
		Message:    fmt.Sprintf("Parsing %d documents...", len(paths)),
	})

	var (
		mu      sync.Mutex
		records = make(map[string]Record, len(paths))
		origin  = make(map[string]string, len(paths))
		done    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			doc, err := p.source.Open(path)
			if err != nil {
				return err
			}
			rec := Parse(doc.Paragraphs)

			mu.Lock()
			defer mu.Unlock()

			if prev, dup := origin[doc.Label]; dup {
				return fmt.Errorf("%w %q: %s and %s", ErrDuplicateLabel, doc.Label, prev, path)
			}
			origin[doc.Label] = path
			records[doc.Label] = rec
			done++

			p.progress(Progress{
				Stage:      StageParsing,
				ItemIndex:  done,
				TotalItems: len(paths),
				Message:    fmt.Sprintf("Parsed %s (%d answers)", doc.Label, len(rec.Answers)),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
