package proc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sho0pi/naturaltime"

	"github.com/egyptiansgermany/bawab/sys"
)

var (
	ErrPastTime     = errors.New("announcement time is not in the future")
	ErrUnparsedTime = errors.New("could not parse time")
	ErrUnknownSet   = errors.New("unknown target set")
)

// AnnouncementStore persists one-off announcements until they are due.
type AnnouncementStore interface {
	Add(ctx context.Context, a *sys.Announcement) error
	ClaimDue(ctx context.Context, now time.Time) ([]*sys.Announcement, error)
	Pending(ctx context.Context) ([]*sys.Announcement, error)
}

// SQLiteAnnouncementStore keeps pending announcements in the database.
type SQLiteAnnouncementStore struct{}

func (SQLiteAnnouncementStore) Add(ctx context.Context, a *sys.Announcement) error {
	return sys.AddAnnouncement(ctx, a)
}

func (SQLiteAnnouncementStore) ClaimDue(ctx context.Context, now time.Time) ([]*sys.Announcement, error) {
	return sys.ClaimDueAnnouncements(ctx, now)
}

func (SQLiteAnnouncementStore) Pending(ctx context.Context) ([]*sys.Announcement, error) {
	return sys.GetPendingAnnouncements(ctx)
}

// TimeParser turns free text like "next friday at 3pm" into a time.
type TimeParser interface {
	Parse(input string, now time.Time) (time.Time, error)
}

type naturalParser struct {
	p *naturaltime.Parser
}

// NewNaturalTimeParser parses natural language, falling back to Go
// durations such as "90m".
func NewNaturalTimeParser() (TimeParser, error) {
	p, err := naturaltime.New()
	if err != nil {
		return nil, fmt.Errorf(sys.MsgAnnouncerParserFail, err)
	}
	return &naturalParser{p: p}, nil
}

func (n *naturalParser) Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if result, err := n.p.ParseDate(input, now); err == nil && result != nil {
		return *result, nil
	}
	if d, err := time.ParseDuration(input); err == nil {
		return now.Add(d), nil
	}
	return time.Time{}, fmt.Errorf("%w: %s", ErrUnparsedTime, input)
}

// Announcer stores future announcements and delivers them from a tick hook.
type Announcer struct {
	Dispatcher *Dispatcher
	Store      AnnouncementStore
	Parser     TimeParser
	Location   *time.Location
	Sets       map[string][]Target

	now func() time.Time
}

func NewAnnouncer(d *Dispatcher, store AnnouncementStore, parser TimeParser, loc *time.Location, sets map[string][]Target) *Announcer {
	if loc == nil {
		loc = time.UTC
	}
	return &Announcer{Dispatcher: d, Store: store, Parser: parser, Location: loc, Sets: sets}
}

func (a *Announcer) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// Schedule parses when in the community timezone and stores the announcement.
func (a *Announcer) Schedule(ctx context.Context, set, title, body, when string, author snowflake.ID) (*sys.Announcement, error) {
	if _, ok := a.Sets[set]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, set)
	}

	now := a.clock().In(a.Location)
	fireAt, err := a.Parser.Parse(when, now)
	if err != nil {
		return nil, err
	}
	if !fireAt.After(now) {
		return nil, ErrPastTime
	}

	ann := &sys.Announcement{
		Target:    set,
		Title:     title,
		Body:      body,
		FireAt:    fireAt,
		CreatedBy: author,
		CreatedAt: now,
	}
	if err := a.Store.Add(ctx, ann); err != nil {
		return nil, err
	}
	return ann, nil
}

// Pending lists announcements not yet delivered, soonest first.
func (a *Announcer) Pending(ctx context.Context) ([]*sys.Announcement, error) {
	return a.Store.Pending(ctx)
}

// DeliverDue claims every due announcement and fans each one out. It has
// the TickHook signature.
func (a *Announcer) DeliverDue(ctx context.Context, now time.Time) {
	due, err := a.Store.ClaimDue(ctx, now)
	if err != nil {
		sys.LogError(sys.MsgAnnouncerClaimFailed, err)
		return
	}

	for _, ann := range due {
		targets, ok := a.Sets[ann.Target]
		if !ok {
			sys.LogWarn(sys.MsgAnnouncerUnknownSet, ann.ID, ann.Target)
			continue
		}
		a.Dispatcher.Announce(ctx, ann.Title, ann.Body, targets)
		sys.LogAnnouncer(sys.MsgAnnouncerSent, ann.ID, ann.Target)
	}
}

// DescribeFireTime renders a Discord timestamp pair for an ack message.
func DescribeFireTime(t time.Time) string {
	return fmt.Sprintf("for <t:%d:F> (<t:%d:R>)", t.Unix(), t.Unix())
}
