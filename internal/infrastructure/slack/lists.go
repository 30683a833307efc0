package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/minsu-dev/fortune-bot/internal/domain"
)

// itemsPageLimit is the page size requested from slackLists.items.list.
const itemsPageLimit = 200

type itemsListResponse struct {
	envelope
	Items            []domain.ListItem `json:"items"`
	ResponseMetadata responseMetadata  `json:"response_metadata"`
}

// FetchAllItems walks the cursor pagination of slackLists.items.list and
// returns every item of the list. The loop ends when the response carries
// an empty next cursor.
func (c *Client) FetchAllItems(ctx context.Context, listID string) ([]domain.ListItem, error) {
	var items []domain.ListItem
	cursor := ""
	for {
		params := url.Values{}
		params.Set("list_id", listID)
		params.Set("limit", strconv.Itoa(itemsPageLimit))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		body, err := c.call(ctx, "slackLists.items.list", params)
		if err != nil {
			return nil, err
		}
		var page itemsListResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("slackLists.items.list: decoding items: %w", err)
		}

		items = append(items, page.Items...)
		cursor = page.ResponseMetadata.NextCursor
		if cursor == "" {
			return items, nil
		}
	}
}
