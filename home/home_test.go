package home

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/egyptiansgermany/bawab/proc"
	"github.com/egyptiansgermany/bawab/sys"
)

func TestFanoutAck(t *testing.T) {
	errSend := errors.New("missing access")

	tests := []struct {
		name string
		ds   []proc.Delivery
		want string
	}{
		{"all sent", []proc.Delivery{{Target: "bonn"}, {Target: "essen"}}, sys.MsgAckCities},
		{"nothing to send", nil, sys.MsgAckCities},
		{"skipped", []proc.Delivery{{Target: "bonn"}, {Target: "essen", Skipped: true, Err: proc.ErrUnresolved}}, fmt.Sprintf(sys.MsgAckPartial, 1, 1, 0)},
		{"failed", []proc.Delivery{{Target: "bonn", Err: errSend}}, fmt.Sprintf(sys.MsgAckPartial, 0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fanoutAck(sys.MsgAckCities, tt.ds); got != tt.want {
				t.Errorf("fanoutAck = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPurgeAck(t *testing.T) {
	reports := []proc.PurgeReport{
		{Target: "bonn", Name: "Bonn", Deleted: 50},
		{Target: "essen", Name: "Essen", Skipped: true},
		{Target: "hamburg", Name: "Hamburg", Err: errors.New("forbidden")},
		{Target: "kiel", Name: "Kiel"},
	}
	want := "🧹 Cleared 50 messages in Bonn!\n❌ Couldn't clear Hamburg.\n🧹 Cleared 0 messages in Kiel!"
	if got := purgeAck(reports); got != want {
		t.Errorf("purgeAck =\n%s\nwant\n%s", got, want)
	}

	if got := purgeAck([]proc.PurgeReport{{Target: "essen", Skipped: true}}); got != sys.MsgAckClearedNothing {
		t.Errorf("purgeAck(all skipped) = %q", got)
	}
}

func TestAnnounceAtError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: someday", proc.ErrUnparsedTime), sys.ErrAckParseFailed},
		{proc.ErrPastTime, sys.ErrAckPastTime},
		{fmt.Errorf("%w: %q", proc.ErrUnknownSet, "moon"), sys.ErrAckUnknownSet},
		{errors.New("disk full"), sys.ErrAckSaveFailed},
	}
	for _, tt := range tests {
		if got := announceAtError(tt.err); got != tt.want {
			t.Errorf("announceAtError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, n := range sys.RegisteredCommandNames() {
		names[n] = true
	}
	for _, want := range []string{"announce", "announce_cities", "announce_test", "announce_at", "announce_pending", "clear_all", "monday_poll"} {
		if !names[want] {
			t.Errorf("command %q not registered", want)
		}
	}
}

func TestPendingAck(t *testing.T) {
	if got := pendingAck(nil); got != sys.MsgAckPendingNone {
		t.Errorf("pendingAck(nil) = %q", got)
	}

	at := time.Unix(1758535200, 0)
	got := pendingAck([]*sys.Announcement{
		{ID: 3, Target: proc.SetCities, Body: "Meetup", FireAt: at},
		{ID: 4, Target: proc.SetTest, Body: strings.Repeat("x", 100), FireAt: at},
	})
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("pendingAck lines = %q", lines)
	}
	if lines[0] != fmt.Sprintf(sys.MsgAckPendingHeader, 2) {
		t.Errorf("header = %q", lines[0])
	}
	if want := "`#3` to **cities** <t:1758535200:F> (<t:1758535200:R>): Meetup"; lines[1] != want {
		t.Errorf("line = %q, want %q", lines[1], want)
	}
	if !strings.HasSuffix(lines[2], strings.Repeat("x", 60)+"…") {
		t.Errorf("long body not trimmed: %q", lines[2])
	}
}
