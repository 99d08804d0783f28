package home

import (
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/egyptiansgermany/bawab/proc"
	"github.com/egyptiansgermany/bawab/sys"
)

func init() {
	sys.RegisterMessageCreateHandler(onMessageCreate)
	sys.RegisterReactionAddHandler(onReactionAdd)
	sys.RegisterMemberJoinHandler(onMemberJoin)
}

func onMessageCreate(event *events.MessageCreate) {
	if engine == nil || event.GuildID == nil {
		return
	}
	msg := event.Message
	engine.Filter.Handle(sys.AppContext, proc.InboundMessage{
		ID:          msg.ID,
		ChannelID:   event.ChannelID,
		AuthorID:    msg.Author.ID,
		AuthorIsBot: msg.Author.Bot,
		Content:     msg.Content,
	})
}

func onReactionAdd(event *events.MessageReactionAdd) {
	if engine == nil || event.Emoji.Name == nil {
		return
	}
	// Only the organizer emoji needs the REST round trip below.
	if !proc.SameEmoji(*event.Emoji.Name, proc.EmojiOrganizer) {
		return
	}

	var guildID snowflake.ID
	if event.GuildID != nil {
		guildID = *event.GuildID
	}

	ctx := sys.AppContext
	self := engine.Platform.SelfID()
	ev := proc.ReactionEvent{
		UserID:    event.UserID,
		UserIsBot: event.UserID == self || (event.Member != nil && event.Member.User.Bot),
		GuildID:   guildID,
		ChannelID: event.ChannelID,
		MessageID: event.MessageID,
		Emoji:     *event.Emoji.Name,
	}
	if !ev.UserIsBot {
		author, err := engine.Platform.MessageAuthor(ctx, event.ChannelID, event.MessageID)
		if err != nil {
			sys.LogDebug(sys.MsgGenericError, err)
			return
		}
		ev.AuthoredBySelf = author == self
	}

	decision := engine.Assigner.Handle(ctx, ev)
	if ignore, ok := decision.(proc.Ignore); ok {
		sys.LogDebug(sys.MsgReactionIgnored, event.MessageID, ignore.Reason)
	}
}

func onMemberJoin(event *events.GuildMemberJoin) {
	if engine == nil {
		return
	}
	engine.Greeter.Greet(sys.AppContext, proc.NewMember{
		UserID:   event.Member.User.ID,
		Username: event.Member.User.Username,
		GuildID:  event.GuildID,
	})
}
