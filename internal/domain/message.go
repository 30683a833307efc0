package domain

// Message is one entry of a channel history or thread replies page.
type Message struct {
	TS         string `json:"ts"`
	User       string `json:"user"`
	BotID      string `json:"bot_id"`
	Subtype    string `json:"subtype"`
	ReplyCount int    `json:"reply_count"`
}

// AuthoredBy reports whether the message was authored by the bot identified
// by the given user id and bot id.
func (m *Message) AuthoredBy(botUserID, botID string) bool {
	if botUserID != "" && m.User == botUserID {
		return true
	}
	if botID != "" && m.BotID == botID {
		return true
	}
	return m.Subtype == "bot_message" && botUserID != "" && m.User == botUserID
}
