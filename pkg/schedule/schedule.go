// Package schedule registers recurring maintenance tasks. The storefront
// uses it for the nightly offer expiry sweep and the bestseller rank
// recompute.
//
//	schedule.Every(5).Minutes().Name("cache-warm").Run(warmCache)
//	schedule.Daily().At("00:05").Name("offer-sweep").Run(sweepOffers)
//	schedule.Cron("0 3 * * 0").Run(weeklyReport)
//
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/petpalace/petpalace/pkg/logger"
)

type Task func()

type entry struct {
	id        string
	interval  time.Duration
	dailyAt   string // "HH:MM", set by Daily().At
	cronExpr  string
	task      Task
	noOverlap bool

	mu         sync.Mutex
	lastRun    time.Time
	lastMinute time.Time // guards minute-resolution entries against re-firing
	running    bool
}

// Schedule is the fluent builder handed back until Run registers the entry.
type Schedule struct {
	e *entry
}

var (
	regMu   sync.Mutex
	entries []*entry
)

type every struct{ n int }

func Every(n int) *every { return &every{n: n} }

func (f *every) Seconds() *Schedule { return build(time.Duration(f.n) * time.Second) }
func (f *every) Minutes() *Schedule { return build(time.Duration(f.n) * time.Minute) }
func (f *every) Hours() *Schedule   { return build(time.Duration(f.n) * time.Hour) }

func EveryMinute() *Schedule { return Every(1).Minutes() }
func Hourly() *Schedule      { return Every(1).Hours() }

// Daily defaults to midnight; chain At to pick the time.
func Daily() *Schedule {
	return &Schedule{e: &entry{dailyAt: "00:00"}}
}

// Cron registers a 5-field expression (minute hour dom month dow).
func Cron(expr string) *Schedule {
	return &Schedule{e: &entry{cronExpr: expr}}
}

func build(d time.Duration) *Schedule {
	return &Schedule{e: &entry{interval: d}}
}

// At sets the wall-clock time for a Daily entry, "HH:MM" 24-hour.
func (s *Schedule) At(hhmm string) *Schedule {
	if s.e.dailyAt != "" {
		s.e.dailyAt = hhmm
	}
	return s
}

// WithoutOverlapping skips a tick while the previous run is still going.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Name labels the entry for logs and schedule:list.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the task. Start must be called for anything to execute.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn

	regMu.Lock()
	defer regMu.Unlock()
	if s.e.id == "" {
		s.e.id = fmt.Sprintf("task-%d", len(entries)+1)
	}
	entries = append(entries, s.e)
}

// Start runs the dispatcher loop until ctx is cancelled. Ticks once a second.
func Start(ctx context.Context) {
	go loop(ctx)
	logger.Info("schedule: started")
}

// List describes the registered entries for the CLI.
func List() []string {
	regMu.Lock()
	defer regMu.Unlock()

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s  [%s]", e.id, e.describe()))
	}
	return out
}

// Flush clears the registry. Tests only.
func Flush() {
	regMu.Lock()
	defer regMu.Unlock()
	entries = nil
}

func (e *entry) describe() string {
	switch {
	case e.cronExpr != "":
		return "cron " + e.cronExpr
	case e.dailyAt != "":
		return "daily at " + e.dailyAt
	default:
		return "every " + e.interval.String()
	}
}

func loop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: stopped")
			return
		case now := <-ticker.C:
			regMu.Lock()
			current := append([]*entry(nil), entries...)
			regMu.Unlock()

			for _, e := range current {
				if e.due(now) {
					e.dispatch()
				}
			}
		}
	}
}

// due also claims the current minute for minute-resolution entries so a
// matching minute fires exactly once despite the 1s tick.
func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.cronExpr != "":
		if !matchCron(e.cronExpr, now) {
			return false
		}
		return e.claimMinute(now)
	case e.dailyAt != "":
		if now.Format("15:04") != e.dailyAt {
			return false
		}
		return e.claimMinute(now)
	default:
		if !e.lastRun.IsZero() && now.Sub(e.lastRun) < e.interval {
			return false
		}
		return true
	}
}

func (e *entry) claimMinute(now time.Time) bool {
	minute := now.Truncate(time.Minute)
	if e.lastMinute.Equal(minute) {
		return false
	}
	e.lastMinute = minute
	return true
}

func (e *entry) dispatch() {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping run", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = time.Now()
	e.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
			}
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()

		logger.Info("schedule: running", "id", e.id)
		e.task()
	}()
}

// 5-field cron matching: * | n | */step | a-b per field.
func matchCron(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}

	values := []int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, field := range fields {
		if !matchField(field, values[i]) {
			return false
		}
	}
	return true
}

func matchField(field string, val int) bool {
	if field == "*" {
		return true
	}
	if step, ok := strings.CutPrefix(field, "*/"); ok {
		var n int
		fmt.Sscanf(step, "%d", &n)
		return n > 0 && val%n == 0
	}
	if lo, hi, ok := strings.Cut(field, "-"); ok {
		var a, b int
		fmt.Sscanf(lo, "%d", &a)
		fmt.Sscanf(hi, "%d", &b)
		return val >= a && val <= b
	}
	var n int
	fmt.Sscanf(field, "%d", &n)
	return n == val
}
