package proc

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func TestAnnounceSkipsUnresolvable(t *testing.T) {
	// "gone" is in the directory but its channel was deleted.
	p := newFakePlatform(1, 3)
	d := newTestDispatcher(t, p,
		DirectoryEntry{Name: "first", ChannelID: 1},
		DirectoryEntry{Name: "gone", ChannelID: 2},
		DirectoryEntry{Name: "third", ChannelID: 3},
	)

	out := d.Announce(context.Background(), "", "hello", []Target{"first", "gone", "missing", "third"})
	if len(out) != 4 {
		t.Fatalf("got %d deliveries, want 4", len(out))
	}

	if !out[0].Sent() || !out[3].Sent() {
		t.Errorf("resolvable targets not delivered: %+v", out)
	}
	for _, i := range []int{1, 2} {
		if !out[i].Skipped || !errors.Is(out[i].Err, ErrUnresolved) {
			t.Errorf("delivery %d = %+v, want skipped", i, out[i])
		}
	}

	want := "📢 **Announcement**\nhello"
	for _, ch := range []snowflake.ID{1, 3} {
		sent := p.sentTo(ch)
		if len(sent) != 1 || sent[0].Content != want {
			t.Errorf("channel %d got %+v, want one %q", ch, sent, want)
		}
	}

	s := Summarize(out)
	if s != (Summary{Sent: 2, Skipped: 2}) {
		t.Errorf("Summarize = %+v", s)
	}
}

func TestAnnounceContinuesAfterSendError(t *testing.T) {
	p := newFakePlatform(1, 2, 3)
	p.failSend[2] = errFake
	d := newTestDispatcher(t, p,
		DirectoryEntry{Name: "a", ChannelID: 1},
		DirectoryEntry{Name: "b", ChannelID: 2},
		DirectoryEntry{Name: "c", ChannelID: 3},
	)

	out := d.Announce(context.Background(), "Meetup", "Saturday 3pm", []Target{"a", "b", "c"})
	if !errors.Is(out[1].Err, errFake) || out[1].Skipped {
		t.Errorf("delivery to b = %+v, want send error", out[1])
	}
	if !out[0].Sent() || !out[2].Sent() {
		t.Errorf("other targets not delivered: %+v", out)
	}
	if got := p.sentTo(3); len(got) != 1 || got[0].Content != "📢 **Meetup**\nSaturday 3pm" {
		t.Errorf("channel c got %+v", got)
	}
	if s := Summarize(out); s != (Summary{Sent: 2, Failed: 1}) {
		t.Errorf("Summarize = %+v", s)
	}
}

func TestAnnounceLiteralChannelID(t *testing.T) {
	p := newFakePlatform(1417617923228307612)
	d := newTestDispatcher(t, p)

	out := d.Announce(context.Background(), "", "hi", []Target{"1417617923228307612"})
	if len(out) != 1 || !out[0].Sent() {
		t.Fatalf("literal id not delivered: %+v", out)
	}
}

func TestFormatAnnouncementDefaultsTitle(t *testing.T) {
	if got := FormatAnnouncement("  ", "x"); got != "📢 **Announcement**\nx" {
		t.Errorf("FormatAnnouncement = %q", got)
	}
}
