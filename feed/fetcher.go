package feed

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"studio/types"
)

// DefaultCount caps imported items when the caller does not say.
const DefaultCount = 10

// Draft is a feed item on its way to becoming an Article. SourceURL
// points at the original page for full-content extraction.
type Draft struct {
	Article         types.Article
	SourceURL       string
	ExtractionError string
}

// FetchFeed retrieves and parses an RSS/Atom feed, returning draft
// articles built from its items.
func FetchFeed(feedURL string, maxCount int) ([]*Draft, error) {
	parser := gofeed.NewParser()
	parsed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return draftsFromFeed(parsed, maxCount), nil
}

// draftsFromFeed maps feed items onto drafts. Summary and content are
// placeholders until the extractor visits SourceURL.
func draftsFromFeed(parsed *gofeed.Feed, maxCount int) []*Draft {
	if maxCount <= 0 {
		maxCount = DefaultCount
	}
	count := min(len(parsed.Items), maxCount)
	drafts := make([]*Draft, 0, count)

	for i := 0; i < count; i++ {
		item := parsed.Items[i]

		tags := make([]string, len(item.Categories))
		copy(tags, item.Categories)

		excerpt := strings.TrimSpace(item.Description)
		if excerpt == "" {
			excerpt = strings.TrimSpace(item.Content)
		}

		draft := &Draft{
			Article: types.Article{
				Title:   item.Title,
				Excerpt: excerpt,
				Content: item.Content,
				Tags:    tags,
			},
			SourceURL: item.Link,
		}
		if item.Image != nil {
			draft.Article.CoverImage = item.Image.URL
		}

		drafts = append(drafts, draft)
	}
	return drafts
}
