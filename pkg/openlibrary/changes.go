package openlibrary

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/bookmap/pkg/books"
	"github.com/agentstation/bookmap/pkg/errors"
)

// timestamp layouts seen in recentchanges payloads
var changeTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// wireChange is the recentchanges JSON shape.
type wireChange struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	Comment   string `json:"comment"`
	Author    *struct {
		Key string `json:"key"`
	} `json:"author"`
	Changes []struct {
		Key      string `json:"key"`
		Revision int    `json:"revision"`
	} `json:"changes"`
}

func (w wireChange) event(kind books.Kind) books.ChangeEvent {
	ev := books.ChangeEvent{
		ID:      w.ID,
		Kind:    kind,
		Comment: w.Comment,
	}
	if k, ok := books.KindFromFeed(w.Kind); ok {
		ev.Kind = k
	}
	if w.Author != nil {
		ev.AuthorRef = w.Author.Key
	}
	for _, layout := range changeTimeLayouts {
		if t, err := time.Parse(layout, w.Timestamp); err == nil {
			ev.Timestamp = t.UTC()
			break
		}
	}
	for _, c := range w.Changes {
		if c.Key != "" {
			ev.AffectedKeys = append(ev.AffectedKeys, c.Key)
		}
	}
	return ev
}

// RecentChanges fetches up to limit of the newest events of one kind,
// excluding bot edits. Events are returned newest first, as served.
func (c *Client) RecentChanges(ctx context.Context, kind books.Kind, limit int) ([]books.ChangeEvent, error) {
	if kind != books.KindAdd && kind != books.KindEdit {
		return nil, errors.NewValidationError("kind", kind, "unknown change kind")
	}
	if limit <= 0 {
		return nil, errors.NewValidationError("limit", limit, "must be positive")
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("bot", "false")

	var raw json.RawMessage
	path := "/recentchanges/" + kind.Feed() + ".json"
	if err := c.getJSON(ctx, path, query, &raw); err != nil {
		return nil, err
	}

	// non-array payloads are treated as an empty page
	var wire []wireChange
	if trimmed := strings.TrimSpace(string(raw)); !strings.HasPrefix(trimmed, "[") {
		return []books.ChangeEvent{}, nil
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	events := make([]books.ChangeEvent, 0, len(wire))
	for _, w := range wire {
		if w.ID == "" {
			continue
		}
		events = append(events, w.event(kind))
	}
	return events, nil
}
