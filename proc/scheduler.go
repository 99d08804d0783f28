package proc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/egyptiansgermany/bawab/sys"
)

var ErrSchedulerRunning = errors.New("scheduler already running")

// Action is the work bound to a schedule rule.
type Action func(ctx context.Context) error

// ScheduleRule fires its action when the local time reaches Weekday
// (0 = Monday), Hour and Minute.
type ScheduleRule struct {
	Name    string
	Weekday int
	Hour    int
	Minute  int
	Action  Action
}

// TickHook runs on every tick after the matched rules.
type TickHook func(ctx context.Context, now time.Time)

// WeekdayIndex maps a time to 0 = Monday ... 6 = Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Match returns, in registration order, the rules whose weekday, hour and
// minute equal t in t's own location.
func Match(rules []ScheduleRule, t time.Time) []ScheduleRule {
	wd, h, m := WeekdayIndex(t), t.Hour(), t.Minute()
	var out []ScheduleRule
	for _, r := range rules {
		if r.Weekday == wd && r.Hour == h && r.Minute == m {
			out = append(out, r)
		}
	}
	return out
}

// Scheduler evaluates rules on a fixed tick. Ticks run one after another on
// a single goroutine; a slow tick makes the ticker drop, never overlap.
type Scheduler struct {
	Rules    []ScheduleRule
	Location *time.Location
	Interval time.Duration
	Ledger   Ledger
	Hooks    []TickHook

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(rules []ScheduleRule, loc *time.Location, interval time.Duration, ledger Ledger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if interval <= 0 {
		interval = sys.DefaultTickInterval
	}
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	return &Scheduler{Rules: rules, Location: loc, Interval: interval, Ledger: ledger}
}

func (s *Scheduler) AddHook(h TickHook) {
	s.Hooks = append(s.Hooks, h)
}

// Start launches the tick loop in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	runCtx, done, ok := s.begin(ctx)
	if !ok {
		return ErrSchedulerRunning
	}
	go s.run(runCtx, done)
	return nil
}

// Daemon adapts the scheduler to the daemon registry.
func (s *Scheduler) Daemon(ctx context.Context) (bool, func(), func()) {
	runCtx, done, ok := s.begin(ctx)
	if !ok {
		return false, nil, nil
	}
	return true, func() { s.run(runCtx, done) }, s.Stop
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop cancels the tick loop and waits for the current tick to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	sys.LogScheduler(sys.MsgSchedulerStopped)
	cancel()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
	}
}

func (s *Scheduler) begin(ctx context.Context) (context.Context, chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, nil, false
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	return runCtx, s.done, true
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if s.Interval > time.Minute {
		sys.LogWarn(sys.MsgSchedulerCoarseTick, s.Interval)
	}
	sys.LogScheduler(sys.MsgSchedulerStarted, s.Interval, s.Location, len(s.Rules))

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.TickAt(ctx, time.Now())
	for {
		select {
		case now := <-ticker.C:
			s.TickAt(ctx, now)
		case <-ctx.Done():
			return
		}
	}
}

// Tick evaluates the rules against the current time.
func (s *Scheduler) Tick(ctx context.Context) {
	s.TickAt(ctx, time.Now())
}

// TickAt fires every rule matching now, each at most once per minute, then
// runs the tick hooks.
func (s *Scheduler) TickAt(ctx context.Context, now time.Time) {
	local := now.In(s.Location)
	slot := local.Truncate(time.Minute)

	for _, r := range Match(s.Rules, local) {
		if ctx.Err() != nil {
			return
		}
		s.fire(ctx, r, slot)
	}

	for _, h := range s.Hooks {
		if ctx.Err() != nil {
			return
		}
		s.runHook(ctx, h, local)
	}
}

func (s *Scheduler) fire(ctx context.Context, r ScheduleRule, slot time.Time) {
	claimed, err := s.Ledger.Claim(ctx, r.Name, slot)
	if err != nil {
		sys.LogError(sys.MsgSchedulerLedgerFail, r.Name, err)
		return
	}
	if !claimed {
		sys.LogDebug(sys.MsgSchedulerAlreadyFired, r.Name, slot.Format(time.DateTime))
		return
	}

	sys.LogScheduler(sys.MsgSchedulerRuleFired, r.Name, slot.Format("Mon 15:04"))
	if err := runAction(ctx, r.Action); err != nil {
		sys.LogError(sys.MsgSchedulerRuleFailed, r.Name, err)
	}
}

func runAction(ctx context.Context, a Action) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if a == nil {
		return nil
	}
	return a(ctx)
}

func (s *Scheduler) runHook(ctx context.Context, h TickHook, now time.Time) {
	defer func() {
		if p := recover(); p != nil {
			sys.LogError(sys.MsgSchedulerRulePanic, "hook", p)
		}
	}()
	h(ctx, now)
}

// Ledger records which (rule, minute) slots have already fired.
type Ledger interface {
	// Claim reports true exactly once per rule and slot.
	Claim(ctx context.Context, rule string, slot time.Time) (bool, error)
}

type ledgerKey struct {
	rule string
	slot int64
}

// MemoryLedger is a process-local ledger.
type MemoryLedger struct {
	mu   sync.Mutex
	seen map[ledgerKey]struct{}
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{seen: make(map[ledgerKey]struct{})}
}

func (l *MemoryLedger) Claim(_ context.Context, rule string, slot time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := ledgerKey{rule: rule, slot: slot.Unix()}
	if _, ok := l.seen[k]; ok {
		return false, nil
	}
	l.seen[k] = struct{}{}

	// Old slots can never match again.
	cutoff := slot.Add(-time.Hour).Unix()
	for old := range l.seen {
		if old.slot < cutoff {
			delete(l.seen, old)
		}
	}
	return true, nil
}

// SQLiteLedger keeps the ledger in the schedule_runs table so a restart
// within the same minute does not fire a rule twice.
type SQLiteLedger struct {
	Retention time.Duration

	mu         sync.Mutex
	lastPruned time.Time
}

func NewSQLiteLedger() *SQLiteLedger {
	return &SQLiteLedger{Retention: 7 * 24 * time.Hour}
}

func (l *SQLiteLedger) Claim(ctx context.Context, rule string, slot time.Time) (bool, error) {
	return sys.ClaimScheduleRun(ctx, rule, slot)
}

// PruneHook drops ledger rows older than the retention, at most hourly.
func (l *SQLiteLedger) PruneHook(ctx context.Context, now time.Time) {
	l.mu.Lock()
	if now.Sub(l.lastPruned) < time.Hour {
		l.mu.Unlock()
		return
	}
	l.lastPruned = now
	l.mu.Unlock()

	if _, err := sys.PruneScheduleRuns(ctx, now.Add(-l.Retention)); err != nil {
		sys.LogWarn(sys.MsgSchedulerPruneFail, err)
	}
}
