package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/egyptiansgermany/bawab/proc"
	"github.com/egyptiansgermany/bawab/sys"
)

func messageOptions() []discord.ApplicationCommandOption {
	return []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "message",
			Description: "Text to announce",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "title",
			Description: "Heading shown above the message (default: Announcement)",
			Required:    false,
		},
	}
}

func init() {
	perm := discord.PermissionManageMessages

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "announce",
		Description:              "Send an announcement to the announcement channel",
		DefaultMemberPermissions: omit.New(&perm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options:                  messageOptions(),
	}, announceTo(proc.SetAnnouncement, sys.MsgAckAnnouncement))

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "announce_cities",
		Description:              "Send an announcement to every city channel",
		DefaultMemberPermissions: omit.New(&perm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options:                  messageOptions(),
	}, announceTo(proc.SetCities, sys.MsgAckCities))

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "announce_test",
		Description:              "Send an announcement to the test channel",
		DefaultMemberPermissions: omit.New(&perm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options:                  messageOptions(),
	}, announceTo(proc.SetTest, sys.MsgAckTest))

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "announce_at",
		Description:              "Schedule a one-off announcement",
		DefaultMemberPermissions: omit.New(&perm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: append([]discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionString{
				Name:        "when",
				Description: "When to send it (e.g. 'tomorrow at 6pm', 'in 2 hours')",
				Required:    true,
			},
			discord.ApplicationCommandOptionString{
				Name:        "target",
				Description: "Where to send it",
				Required:    true,
				Choices: []discord.ApplicationCommandOptionChoiceString{
					{Name: "Announcement channel", Value: proc.SetAnnouncement},
					{Name: "All cities", Value: proc.SetCities},
					{Name: "Test channel", Value: proc.SetTest},
				},
			},
		}, messageOptions()...),
	}, handleAnnounceAt)

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "announce_pending",
		Description:              "List scheduled one-off announcements",
		DefaultMemberPermissions: omit.New(&perm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
	}, handleAnnouncePending)
}

// announceTo builds the handler for one of the fixed-target announce commands.
func announceTo(set, ack string) func(event *events.ApplicationCommandInteractionCreate) {
	return func(event *events.ApplicationCommandInteractionCreate) {
		data := event.SlashCommandInteractionData()
		body := data.String("message")
		title, _ := data.OptString("title")

		deferred(event, func(ctx context.Context) string {
			targets := engine.Community.TargetSets()[set]
			ds := engine.Dispatcher.Announce(ctx, title, body, targets)
			return fanoutAck(ack, ds)
		})
	}
}

func handleAnnounceAt(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	when := data.String("when")
	set := data.String("target")
	body := data.String("message")
	title, _ := data.OptString("title")
	author := event.User().ID

	deferred(event, func(ctx context.Context) string {
		if announcer == nil {
			return sys.ErrAckNotAvailable
		}
		ann, err := announcer.Schedule(ctx, set, title, body, when, author)
		if err != nil {
			return announceAtError(err)
		}
		return fmt.Sprintf(sys.MsgAckScheduled, set, proc.DescribeFireTime(ann.FireAt))
	})
}

func handleAnnouncePending(event *events.ApplicationCommandInteractionCreate) {
	deferred(event, func(ctx context.Context) string {
		if announcer == nil {
			return sys.ErrAckNotAvailable
		}
		pending, err := announcer.Pending(ctx)
		if err != nil {
			sys.LogAnnouncer(sys.MsgGenericError, err)
			return sys.ErrAckFetchFailed
		}
		return pendingAck(pending)
	})
}

const pendingPreviewRunes = 60

func pendingAck(pending []*sys.Announcement) string {
	if len(pending) == 0 {
		return sys.MsgAckPendingNone
	}
	var b strings.Builder
	fmt.Fprintf(&b, sys.MsgAckPendingHeader, len(pending))
	for _, a := range pending {
		preview := []rune(a.Body)
		if len(preview) > pendingPreviewRunes {
			preview = append(preview[:pendingPreviewRunes], '…')
		}
		b.WriteByte('\n')
		fmt.Fprintf(&b, sys.MsgAckPendingItem, a.ID, a.Target, a.FireAt.Unix(), a.FireAt.Unix(), string(preview))
	}
	return b.String()
}

func announceAtError(err error) string {
	switch {
	case errors.Is(err, proc.ErrUnparsedTime):
		return sys.ErrAckParseFailed
	case errors.Is(err, proc.ErrPastTime):
		return sys.ErrAckPastTime
	case errors.Is(err, proc.ErrUnknownSet):
		return sys.ErrAckUnknownSet
	default:
		sys.LogAnnouncer(sys.MsgGenericError, err)
		return sys.ErrAckSaveFailed
	}
}
