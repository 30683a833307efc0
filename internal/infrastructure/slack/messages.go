package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/minsu-dev/fortune-bot/internal/domain"
	"github.com/minsu-dev/fortune-bot/internal/domain/port/chat"
)

// historyPageLimit is the page size for conversations.history/replies.
const historyPageLimit = 200

type authTestResponse struct {
	envelope
	UserID string `json:"user_id"`
	BotID  string `json:"bot_id"`
	Team   string `json:"team"`
	User   string `json:"user"`
}

// AuthTest verifies the bot token and returns the bot identity.
func (c *Client) AuthTest(ctx context.Context) (chat.Identity, error) {
	body, err := c.call(ctx, "auth.test", url.Values{})
	if err != nil {
		return chat.Identity{}, err
	}
	var resp authTestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return chat.Identity{}, fmt.Errorf("auth.test: decoding response: %w", err)
	}
	return chat.Identity{
		UserID: resp.UserID,
		BotID:  resp.BotID,
		Team:   resp.Team,
		User:   resp.User,
	}, nil
}

type conversationsOpenResponse struct {
	envelope
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
}

// OpenDM opens or resumes a direct-message channel with the user.
func (c *Client) OpenDM(ctx context.Context, userID string) (string, error) {
	params := url.Values{}
	params.Set("users", userID)

	body, err := c.call(ctx, "conversations.open", params)
	if err != nil {
		return "", err
	}
	var resp conversationsOpenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("conversations.open: decoding response: %w", err)
	}
	if resp.Channel.ID == "" {
		return "", fmt.Errorf("conversations.open: missing channel id for user %s", userID)
	}
	return resp.Channel.ID, nil
}

// PostMessage posts plain text to a channel.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("text", text)

	_, err := c.call(ctx, "chat.postMessage", params)
	return err
}

// DeleteMessage deletes a message by channel and timestamp.
func (c *Client) DeleteMessage(ctx context.Context, channelID, ts string) error {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("ts", ts)

	_, err := c.call(ctx, "chat.delete", params)
	return err
}

type messagesPageResponse struct {
	envelope
	Messages         []domain.Message `json:"messages"`
	ResponseMetadata responseMetadata `json:"response_metadata"`
}

// History returns one page of channel history plus the next cursor.
func (c *Client) History(ctx context.Context, channelID, cursor string) ([]domain.Message, string, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("limit", strconv.Itoa(historyPageLimit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return c.messagesPage(ctx, "conversations.history", params)
}

// Replies returns one page of a thread's replies plus the next cursor. The
// parent message is included in the page, as Slack returns it.
func (c *Client) Replies(ctx context.Context, channelID, threadTS, cursor string) ([]domain.Message, string, error) {
	params := url.Values{}
	params.Set("channel", channelID)
	params.Set("ts", threadTS)
	params.Set("limit", strconv.Itoa(historyPageLimit))
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return c.messagesPage(ctx, "conversations.replies", params)
}

func (c *Client) messagesPage(ctx context.Context, method string, params url.Values) ([]domain.Message, string, error) {
	body, err := c.call(ctx, method, params)
	if err != nil {
		return nil, "", err
	}
	var resp messagesPageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("%s: decoding messages: %w", method, err)
	}
	return resp.Messages, resp.ResponseMetadata.NextCursor, nil
}
