package feed

import (
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Field Notes</title>
    <item>
      <title>First dispatch</title>
      <link>https://example.com/first</link>
      <description>A short summary</description>
      <category>reporting</category>
      <category>travel</category>
    </item>
    <item>
      <title>Second dispatch</title>
      <link>https://example.com/second</link>
      <description></description>
    </item>
    <item>
      <title>Third dispatch</title>
      <link>https://example.com/third</link>
      <description>Another summary</description>
    </item>
  </channel>
</rss>`

func parseSample(t *testing.T) *gofeed.Feed {
	t.Helper()

	parsed, err := gofeed.NewParser().Parse(strings.NewReader(sampleFeed))
	if err != nil {
		t.Fatalf("failed to parse sample feed: %v", err)
	}
	return parsed
}

func TestDraftsFromFeed(t *testing.T) {
	drafts := draftsFromFeed(parseSample(t), 0)
	if len(drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(drafts))
	}

	first := drafts[0]
	if first.Article.Title != "First dispatch" {
		t.Fatalf("unexpected title %q", first.Article.Title)
	}
	if first.SourceURL != "https://example.com/first" {
		t.Fatalf("unexpected source url %q", first.SourceURL)
	}
	if first.Article.Excerpt != "A short summary" {
		t.Fatalf("unexpected excerpt %q", first.Article.Excerpt)
	}
	if len(first.Article.Tags) != 2 || first.Article.Tags[0] != "reporting" {
		t.Fatalf("unexpected tags %v", first.Article.Tags)
	}
}

func TestDraftsFromFeedRespectsMaxCount(t *testing.T) {
	drafts := draftsFromFeed(parseSample(t), 2)
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}
}
