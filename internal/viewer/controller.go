package viewer

import (
	"context"
	"sync"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/urbanbloom/bloomgrid/internal/hexgrid"
	"github.com/urbanbloom/bloomgrid/internal/legend"
	"github.com/urbanbloom/bloomgrid/internal/observability"
)

// DefaultMonth is the fixed starting month.
const DefaultMonth = "Jan"

// Loader loads a month's feature collection. Satisfied by *store.Fetcher.
type Loader interface {
	Load(ctx context.Context, month string) (*geojson.FeatureCollection, error)
}

// Controller orchestrates month selection: it owns the selected month and
// the single current collection, invokes the loader, and propagates
// committed collections to the presenter and the legend deriver.
//
// Selections carry a request generation captured at dispatch time; a
// completion whose generation no longer matches the latest selection is
// discarded without touching state (last-request-wins). The collection is
// replaced wholesale under the lock, so readers always observe a fully
// formed value.
type Controller struct {
	loader    Loader
	presenter *Presenter
	metrics   *observability.Metrics
	logger    zerolog.Logger

	mu            sync.Mutex
	selectedMonth string
	generation    uint64
	current       *geojson.FeatureCollection
	entries       []legend.Entry
	errState      bool
	loading       bool
}

// NewController creates a controller. metrics may be nil.
func NewController(loader Loader, presenter *Presenter, metrics *observability.Metrics, logger zerolog.Logger) *Controller {
	return &Controller{
		loader:        loader,
		presenter:     presenter,
		metrics:       metrics,
		logger:        logger,
		selectedMonth: DefaultMonth,
	}
}

// SelectMonth records the selection, fetches the month's distribution,
// and commits the result unless a newer selection has superseded it.
// Fetch failures are recovered locally: the error flag is set and the
// demonstration collection is committed instead. Stale completions are
// silently dropped. The only error returned is an invalid month code.
func (c *Controller) SelectMonth(ctx context.Context, month string) error {
	normalized, ok := hexgrid.NormalizeMonth(month)
	if !ok {
		return &InvalidMonthError{Month: month}
	}
	month = normalized

	c.mu.Lock()
	c.selectedMonth = month
	c.generation++
	gen := c.generation
	c.loading = true
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.MonthSelections.Inc()
	}

	fc, err := c.loader.Load(ctx, month)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		// A newer request was issued while this one was in flight.
		if c.metrics != nil {
			c.metrics.StaleResponses.Inc()
		}
		c.logger.Debug().Str("month", month).Msg("stale fetch discarded")
		return nil
	}
	c.loading = false

	if err != nil {
		if c.metrics != nil {
			c.metrics.FetchRequests.WithLabelValues("error").Inc()
			c.metrics.DemoFallbacks.Inc()
		}
		c.logger.Warn().Err(err).Str("month", month).Msg("falling back to demonstration data")
		c.errState = true
		c.commit(hexgrid.DemoCollection())
		return nil
	}

	if c.metrics != nil {
		c.metrics.FetchRequests.WithLabelValues("success").Inc()
	}
	c.errState = false
	c.commit(fc)
	return nil
}

// commit replaces the current collection, recomputes the legend from the
// committed value, and forwards it to the presenter. Derivation happens
// here explicitly rather than through an implicit observer, so the data
// flow stays traceable. Callers hold c.mu.
func (c *Controller) commit(fc *geojson.FeatureCollection) {
	c.current = fc
	c.entries = legend.Derive(fc)
	if c.presenter != nil {
		c.presenter.UpdateData(fc)
	}
}

// SelectedMonth returns the most recently requested month.
func (c *Controller) SelectedMonth() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedMonth
}

// Current returns the committed collection, nil before the first commit.
func (c *Controller) Current() *geojson.FeatureCollection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Legend returns the legend derived from the committed collection.
func (c *Controller) Legend() []legend.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}

// ErrorState reports whether the last committed selection fell back to
// the demonstration collection.
func (c *Controller) ErrorState() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errState
}

// Loading reports whether a selection is still in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// InvalidMonthError reports a month code outside Jan..Dec.
type InvalidMonthError struct {
	Month string
}

func (e *InvalidMonthError) Error() string {
	return "invalid month code: " + e.Month
}
