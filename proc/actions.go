package proc

import (
	"context"
	"fmt"
	"time"
)

// Names of the actions a schedule entry can bind to.
const (
	ActionWeeklyPolls     = "weekly_polls"
	ActionWeekendReminder = "weekend_reminder"
	ActionHappyFriday     = "happy_friday"
)

const (
	weekendReminder = "📢 Hope you guys organized the event and will have a great time! 🎉\n" +
		"Don’t forget to share photos in **#photos** 📸\n" +
		"Have a fantastic weekend ahead! 🌟"

	happyFriday = "🎉 Happy Friday everyone! 🌞\n" +
		"Hope you had a great week and enjoy your weekend!\n" +
		"Don’t forget to play some games online on **#games**"
)

// Engine wires the community data to the components that act on it.
type Engine struct {
	Community  *Community
	Platform   Platform
	Dispatcher *Dispatcher
	Polls      *PollEngine
	Assigner   *Assigner
	Filter     *Filter
	Purger     *Purger
	Greeter    *Greeter
}

func NewEngine(c *Community, p Platform) *Engine {
	d := NewDispatcher(p, c.Directory)
	return &Engine{
		Community:  c,
		Platform:   p,
		Dispatcher: d,
		Polls:      NewPollEngine(d, c.Catalog),
		Assigner:   NewAssigner(p, c.OrganizerRole),
		Filter:     NewFilter(p, c.Words),
		Purger:     NewPurger(d),
		Greeter:    NewGreeter(p, c.WelcomeName),
	}
}

// Actions returns the named actions schedule entries may use.
func (e *Engine) Actions() map[string]Action {
	return map[string]Action{
		ActionWeeklyPolls:     e.weeklyPolls,
		ActionWeekendReminder: e.weekendReminder,
		ActionHappyFriday:     e.happyFriday,
	}
}

// Rules builds the schedule rules from the community file.
func (e *Engine) Rules() ([]ScheduleRule, error) {
	return BuildRules(e.Community.Schedule, e.Actions())
}

// NewScheduler builds a scheduler for the community's rules.
func (e *Engine) NewScheduler(interval time.Duration, ledger Ledger) (*Scheduler, error) {
	rules, err := e.Rules()
	if err != nil {
		return nil, err
	}
	return NewScheduler(rules, e.Community.Location, interval, ledger), nil
}

func (e *Engine) weeklyPolls(ctx context.Context) error {
	return summaryError(e.Polls.SendWeeklyPolls(ctx, e.Community.Directory.Targets()))
}

func (e *Engine) weekendReminder(ctx context.Context) error {
	return summaryError(e.Dispatcher.Announce(ctx, "", weekendReminder, e.Community.Directory.Targets()))
}

func (e *Engine) happyFriday(ctx context.Context) error {
	return summaryError(e.Dispatcher.Announce(ctx, "", happyFriday, []Target{e.Community.Announcement}))
}

// summaryError reports failed sends. Skips are expected and not errors.
func summaryError(ds []Delivery) error {
	s := Summarize(ds)
	if s.Failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d deliveries failed", s.Failed, len(ds))
}
