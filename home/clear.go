package home

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/egyptiansgermany/bawab/proc"
	"github.com/egyptiansgermany/bawab/sys"
)

func init() {
	perm := discord.PermissionManageMessages
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "clear_all",
		Description:              "Delete recent messages from every city channel",
		DefaultMemberPermissions: omit.New(&perm),
		Contexts:                 []discord.InteractionContextType{discord.InteractionContextTypeGuild},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionInt{
				Name:        "amount",
				Description: fmt.Sprintf("Messages to delete per channel (default %d)", proc.DefaultPurgeLimit),
				Required:    false,
			},
		},
	}, handleClearAll)
}

func handleClearAll(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	amount := proc.DefaultPurgeLimit
	if v, ok := data.OptInt("amount"); ok {
		amount = v
	}

	deferred(event, func(ctx context.Context) string {
		if amount < 1 || amount > proc.MaxPurgeLimit {
			return fmt.Sprintf(sys.ErrAckBadAmount, proc.MaxPurgeLimit)
		}
		reports := engine.Purger.Clear(ctx, engine.Community.Directory.Targets(), amount)
		return purgeAck(reports)
	})
}
