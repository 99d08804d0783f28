package proc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func fillHistory(p *fakePlatform, channelID snowflake.ID, n int) {
	now := time.Now()
	for i := 0; i < n; i++ {
		p.history[channelID] = append(p.history[channelID], StoredMessage{
			ID:        snowflake.ID(uint64(channelID)*1000 + uint64(i)),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
}

func TestClearReportsPerChannel(t *testing.T) {
	p := newFakePlatform(1, 2, 3)
	fillHistory(p, 1, 80)
	fillHistory(p, 2, 20)
	d := newTestDispatcher(t, p,
		DirectoryEntry{Name: "hamburg", ChannelID: 1},
		DirectoryEntry{Name: "bonn", ChannelID: 2},
		DirectoryEntry{Name: "essen", ChannelID: 3},
		DirectoryEntry{Name: "gone", ChannelID: 4},
	)

	reports := NewPurger(d).Clear(context.Background(), d.Directory.Targets(), 50)
	if len(reports) != 4 {
		t.Fatalf("got %d reports, want 4", len(reports))
	}

	want := []struct {
		name    string
		deleted int
		skipped bool
	}{
		{"Hamburg", 50, false},
		{"Bonn", 20, false},
		{"Essen", 0, false},
		{"Gone", 0, true},
	}
	for i, w := range want {
		r := reports[i]
		if r.Name != w.name || r.Deleted != w.deleted || r.Skipped != w.skipped {
			t.Errorf("report %d = %+v, want %+v", i, r, w)
		}
	}
	if !errors.Is(reports[3].Err, ErrUnresolved) {
		t.Errorf("skipped report err = %v", reports[3].Err)
	}
	if left := len(p.history[1]); left != 30 {
		t.Errorf("channel 1 has %d messages left, want 30", left)
	}
}

func TestClearDefaultLimit(t *testing.T) {
	p := newFakePlatform(1)
	fillHistory(p, 1, 150)
	d := newTestDispatcher(t, p, DirectoryEntry{Name: "bonn", ChannelID: 1})

	reports := NewPurger(d).Clear(context.Background(), []Target{"bonn"}, 0)
	if reports[0].Deleted != DefaultPurgeLimit {
		t.Errorf("deleted %d, want %d", reports[0].Deleted, DefaultPurgeLimit)
	}
}
