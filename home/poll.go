package home

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/egyptiansgermany/bawab/sys"
)

func init() {
	perm := discord.PermissionManageMessages
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "monday_poll",
		Description:              "Send the weekly organizer and activity polls now",
		DefaultMemberPermissions: omit.New(&perm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
	}, handleMondayPoll)
}

func handleMondayPoll(event *events.ApplicationCommandInteractionCreate) {
	deferred(event, func(ctx context.Context) string {
		ds := engine.Polls.SendWeeklyPolls(ctx, engine.Community.Directory.Targets())
		return fanoutAck(sys.MsgAckPolls, ds)
	})
}
