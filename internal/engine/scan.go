package engine

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/S0okJu/openstack-mcp-sample/internal/catalog"
	"github.com/S0okJu/openstack-mcp-sample/internal/model"
)

// Scanner drives the match -> filter -> score pipeline over a stream of
// source units with a bounded worker pool. The catalog is the only shared
// state and is read-only, so workers need no locking; each worker folds
// into its own partial report and partials are merged once at the end.
type Scanner struct {
	cat     *catalog.Catalog
	workers int
	log     *zap.SugaredLogger
}

type Option func(*Scanner)

// WithWorkers bounds the worker pool. Values < 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Scanner) { s.workers = n }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Scanner) { s.log = l }
}

func New(cat *catalog.Catalog, opts ...Option) *Scanner {
	s := &Scanner{cat: cat, log: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(s)
	}
	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}
	return s
}

// Scan processes units until the channel closes or ctx is cancelled.
// Cancellation takes effect between unit boundaries: in-flight units are
// discarded, and the returned report is flagged incomplete while holding
// only findings from fully processed units. A report is always returned.
func (s *Scanner) Scan(ctx context.Context, units <-chan model.SourceUnit) *model.Report {
	partials := make([]*model.Report, s.workers)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		partials[w] = &model.Report{}
		wg.Add(1)
		go func(p *model.Report) {
			defer wg.Done()
			for {
				// Cancellation wins over a ready unit.
				select {
				case <-ctx.Done():
					return
				default:
				}
				select {
				case <-ctx.Done():
					return
				case u, ok := <-units:
					if !ok {
						return
					}
					s.scanUnit(u, p)
				}
			}
		}(partials[w])
	}
	wg.Wait()

	report := &model.Report{}
	for _, p := range partials {
		report.Merge(p)
	}
	if ctx.Err() != nil {
		report.Incomplete = true
	}
	report.Finalize()
	return report
}

// ScanAll is a convenience over Scan for an already-materialized unit set.
func (s *Scanner) ScanAll(ctx context.Context, units []model.SourceUnit) *model.Report {
	ch := make(chan model.SourceUnit)
	go func() {
		defer close(ch)
		for _, u := range units {
			select {
			case <-ctx.Done():
				return
			case ch <- u:
			}
		}
	}()
	return s.Scan(ctx, ch)
}

func (s *Scanner) scanUnit(u model.SourceUnit, p *model.Report) {
	if !u.Valid() {
		p.AddDiagnostic(u.ID, "skipped: content is not scannable text")
		return
	}
	matches := MatchUnit(s.cat, u)
	matches = Filter(u, matches)
	findings := Score(s.cat, u, matches)
	p.Add(findings...)
	p.UnitsScanned++
	s.log.Debugw("unit scanned", "unit", u.ID, "matches", len(matches), "findings", len(findings))
}
