package proc

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"

	"github.com/egyptiansgermany/bawab/sys"
)

const communityName = "EgyptiansGermanyCommunity"

// NewMember is the part of a join event the greeter needs.
type NewMember struct {
	UserID   snowflake.ID
	Username string
	GuildID  snowflake.ID
}

// Greeter welcomes new members in the welcome channel and by DM.
type Greeter struct {
	Platform    Platform
	ChannelName string
}

func NewGreeter(p Platform, channelName string) *Greeter {
	return &Greeter{Platform: p, ChannelName: channelName}
}

func WelcomeMessage(userID snowflake.ID) string {
	return fmt.Sprintf("👋 Hi <@%s>, welcome to **%s**! 🎉\n\n", userID, communityName) +
		"Make sure to check out the channel related to your city to connect with locals 🏙️.\n" +
		"Say hi to **3AM Mohamed, our trusty Bawab bot** 🤖\n\n" +
		"Also, don’t miss our voice channels for:\n" +
		"- 💬 **Dardasha & Questions** – chat with the community in real-time\n" +
		"- 🎓 **Careers** – share and get advice about work opportunities\n" +
		"- 📢 **Announcements** – stay updated with community news\n" +
		"- 🎶 **Concerts Around Germany** – keep track of events and gigs!\n\n" +
		"Have fun and enjoy your stay! 🚀"
}

func WelcomeDM(username string) string {
	return fmt.Sprintf("Hi %s! Welcome to **%s** 🎉\n\n", username, communityName) +
		"Check out your city channel, say hi to 3AM Mohamed the Bawab bot 🤖, " +
		"and explore our voice channels for dardasha, careers, announcements, and concerts around Germany! 🎶\n\n" +
		"Enjoy connecting with fellow Egyptians across Germany!"
}

// Greet posts the channel welcome, if the channel exists, then sends the DM.
// A refused DM is logged and otherwise ignored.
func (g *Greeter) Greet(ctx context.Context, m NewMember) {
	if ch, ok := g.Platform.FindChannelByName(m.GuildID, g.ChannelName); ok {
		if _, err := g.Platform.SendMessage(ctx, ch.ID, WelcomeMessage(m.UserID)); err != nil {
			sys.LogWarn(sys.MsgWelcomeSendFailed, m.UserID, err)
		}
	} else {
		sys.LogDebug(sys.MsgWelcomeChannelMissing, g.ChannelName, m.GuildID)
	}

	if err := g.Platform.SendDM(ctx, m.UserID, WelcomeDM(m.Username)); err != nil {
		sys.LogInfo(sys.MsgWelcomeDMFailed, m.Username, err)
	}
}
