package renderer

import (
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-deadlock"
	"golang.org/x/time/rate"
)

// ProgressFunc receives the number of scanlines still to be rendered.
// Calls are serialized and the count strictly decreases.
type ProgressFunc func(remaining int)

// progressTracker counts completed rows across workers
type progressTracker struct {
	mu        deadlock.Mutex
	remaining int
	total     int
	callback  ProgressFunc
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

func newProgressTracker(rows int, callback ProgressFunc, logger zerolog.Logger) *progressTracker {
	return &progressTracker{
		remaining: rows,
		total:     rows,
		callback:  callback,
		limiter:   rate.NewLimiter(rate.Limit(2), 1),
		logger:    logger,
	}
}

// rowDone records one finished scanline
func (p *progressTracker) rowDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.remaining--
	if p.callback != nil {
		p.callback(p.remaining)
	}

	if p.remaining > 0 && p.limiter.Allow() {
		p.logger.Debug().
			Int("remaining", p.remaining).
			Int("total", p.total).
			Msg("scanlines remaining")
	}
}

// Remaining returns the number of scanlines not yet finished
func (p *progressTracker) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}
