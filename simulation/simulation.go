package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pedronavarrovera/amo/config"
	"github.com/pedronavarrovera/amo/debtmatrix"
	"github.com/pedronavarrovera/amo/dijkstra"
)

// Currency is the unit attached to every simulated transaction.
const Currency = "@mo"

// Kind tells which query produced a record.
type Kind string

const (
	KindAllTargets   Kind = "all-targets"
	KindSingleTarget Kind = "single-target"
)

// TransactionRecord is one routed transfer: the cheapest route from Source
// to Destination in one random network.
type TransactionRecord struct {
	ID              string `json:"id"`
	Trial           int    `json:"trial"`
	Kind            Kind   `json:"kind"`
	Source          int    `json:"source"`
	Destination     int    `json:"destination"`
	SourceName      string `json:"source_name"`
	DestinationName string `json:"destination_name"`
	Distance        int64  `json:"distance"`
	Currency        string `json:"currency"`
	Path            []int  `json:"path"`
}

// Result is everything one trial produced, records in destination order
// with the single-target record last.
type Result struct {
	Trial       int
	Records     []TransactionRecord
	Unreachable int
}

// Sink receives trial results in trial order. An error stops the run.
type Sink func(Result) error

// Summary describes a finished (or cancelled) run.
type Summary struct {
	Trials      int
	Records     int
	Unreachable int
	Elapsed     time.Duration
}

// Options configures Run.
type Options struct {
	Logger  *slog.Logger
	Metrics *Metrics
	Names   *debtmatrix.Names
}

// Option is a functional option for Run.
type Option func(*Options)

// WithLogger sets the logger (slog.Default() otherwise).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithMetrics records every trial on m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithNames names the parties; it must hold exactly Size names.
func WithNames(n *debtmatrix.Names) Option {
	return func(o *Options) { o.Names = n }
}

// ErrBadParams is returned for parameters no trial could run with.
var ErrBadParams = errors.New("simulation: invalid parameters")

// Run executes p.Trials independent trials on a bounded worker pool.
//
// Each trial draws its own network from (p.Seed, trial), runs one
// all-targets pass from p.Source and one single-target query to p.Target.
// Trials share nothing but p, so results depend only on the seed. Results
// reach sink in trial order.
//
// Cancellation is checked between trials: a cancelled ctx stops scheduling
// new trials and Run returns its cause with the partial Summary. Trials
// already running are not interrupted.
func Run(ctx context.Context, p config.Simulation, sink Sink, opts ...Option) (Summary, error) {
	cfg := Options{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := checkParams(p, cfg.Names); err != nil {
		return Summary{}, err
	}
	names := cfg.Names
	if names == nil {
		names = debtmatrix.DefaultNames(p.Size)
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := cfg.Logger.With("trials", p.Trials, "size", p.Size, "workers", workers)
	log.Info("simulation started", "seed", p.Seed, "source", p.Source, "target", p.Target)

	start := time.Now()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	// 1) Collector: reorder completed trials and hand them to sink.
	results := make(chan Result, workers)
	var summary Summary
	collected := make(chan error, 1)
	go func() {
		pending := make(map[int]Result)
		next := 0
		var sinkErr error
		for r := range results {
			pending[r.Trial] = r
			for {
				x, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if sinkErr != nil {
					continue
				}
				if err := sink(x); err != nil {
					sinkErr = fmt.Errorf("simulation: sink: %w", err)
					cancel(sinkErr)
					continue
				}
				summary.Trials++
				summary.Records += len(x.Records)
				summary.Unreachable += x.Unreachable
			}
		}
		collected <- sinkErr
	}()

	// 2) Producers: one goroutine per trial, at most `workers` at a time.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := 0; t < p.Trials; t++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			began := time.Now()
			r, err := runTrial(p, t, names)
			if err != nil {
				return err
			}
			cfg.Metrics.observe(r, time.Since(began).Seconds())
			select {
			case results <- r:
				return nil
			case <-gctx.Done():
				return context.Cause(gctx)
			}
		})
	}
	runErr := g.Wait()
	close(results)
	sinkErr := <-collected
	summary.Elapsed = time.Since(start)

	// 3) Report the first real cause.
	err := sinkErr
	if err == nil && runErr != nil {
		err = runErr
	}
	if err == nil {
		err = context.Cause(ctx)
	}
	if err != nil {
		log.Warn("simulation stopped", "completed", summary.Trials, "err", err)
		return summary, err
	}
	log.Info("simulation finished", "records", summary.Records, "unreachable", summary.Unreachable,
		"elapsed", summary.Elapsed)

	return summary, nil
}

func checkParams(p config.Simulation, names *debtmatrix.Names) error {
	switch {
	case p.Trials < 0:
		return fmt.Errorf("%w: trials %d", ErrBadParams, p.Trials)
	case p.Size < 1:
		return fmt.Errorf("%w: size %d", ErrBadParams, p.Size)
	case p.MaxWeight < 1:
		return fmt.Errorf("%w: max weight %d", ErrBadParams, p.MaxWeight)
	case p.Source < 0 || p.Source >= p.Size:
		return fmt.Errorf("%w: source %d: %w", ErrBadParams, p.Source, debtmatrix.ErrNodeNotFound)
	case p.Target < 0 || p.Target >= p.Size:
		return fmt.Errorf("%w: target %d: %w", ErrBadParams, p.Target, debtmatrix.ErrNodeNotFound)
	case names != nil && names.Len() != p.Size:
		return fmt.Errorf("%w: %d names for %d parties", ErrBadParams, names.Len(), p.Size)
	}

	return nil
}

// runTrial is one full pass: generate, route to everyone, route to Target.
func runTrial(p config.Simulation, trial int, names *debtmatrix.Names) (Result, error) {
	m, err := Generate(trialRand(p.Seed, trial), p.Size, p.MaxWeight)
	if err != nil {
		return Result{}, err
	}

	tree, err := dijkstra.From(m, p.Source)
	if err != nil {
		return Result{}, fmt.Errorf("simulation: trial %d: %w", trial, err)
	}

	r := Result{Trial: trial, Records: make([]TransactionRecord, 0, p.Size)}
	for _, res := range tree.Results() {
		if !res.Reachable {
			r.Unreachable++
			continue
		}
		r.Records = append(r.Records, record(trial, KindAllTargets, p.Source, res, names))
	}

	single, err := dijkstra.To(m, p.Source, p.Target)
	switch {
	case errors.Is(err, dijkstra.ErrUnreachable):
		r.Unreachable++
	case err != nil:
		return Result{}, fmt.Errorf("simulation: trial %d: %w", trial, err)
	default:
		r.Records = append(r.Records, record(trial, KindSingleTarget, p.Source, single, names))
	}

	return r, nil
}

func record(trial int, kind Kind, source int, res dijkstra.Result, names *debtmatrix.Names) TransactionRecord {
	return TransactionRecord{
		ID:              uuid.NewString(),
		Trial:           trial,
		Kind:            kind,
		Source:          source,
		Destination:     res.Target,
		SourceName:      names.NameOr(source),
		DestinationName: names.NameOr(res.Target),
		Distance:        res.Distance,
		Currency:        Currency,
		Path:            res.Path,
	}
}
