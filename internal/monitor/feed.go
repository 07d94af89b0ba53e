package monitor

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
)

// feedPaths are the conventional feed locations tried, in order, relative
// to a source's base URL.
var feedPaths = []string{"/rss", "/feed", "/atom", "/rss.xml", "/feed.xml"}

// tryFeeds attempts the RSS/Atom fallback for a source. The first path that
// answers 200 with a parsable, non-empty feed wins.
func (m *Monitor) tryFeeds(ctx context.Context, baseURL string) []Item {
	parser := gofeed.NewParser()

	for _, path := range feedPaths {
		feedURL := strings.TrimRight(baseURL, "/") + path
		m.logf("trying feed: %s", feedURL)

		res := m.client.Get(ctx, feedURL)
		if res.Err != nil || res.StatusCode != http.StatusOK {
			continue
		}

		feed, err := parser.Parse(bytes.NewReader(res.Body))
		if err != nil || feed == nil || len(feed.Items) == 0 {
			continue
		}

		var items []Item
		for _, entry := range feed.Items {
			if entry.Title == "" || entry.Link == "" {
				continue
			}
			date := entry.Published
			if date == "" {
				date = entry.Updated
			}
			items = append(items, Item{Title: entry.Title, Date: date, URL: entry.Link})
		}
		if len(items) > 0 {
			m.logf("feed fallback succeeded: %d entries", len(items))
			return items
		}
	}
	return nil
}
