package feed

import (
	"context"
	"log"

	"studio/content"
)

// ImportResult summarizes one feed import run.
type ImportResult struct {
	Fetched   int      `json:"fetched"`
	Created   int      `json:"created"`
	Failed    int      `json:"failed"`
	Extracted int      `json:"extracted"`
	IDs       []string `json:"ids"`
}

// Importer pulls articles out of an RSS feed and files them as blog
// posts through the content service.
type Importer struct {
	content *content.Service
}

// NewImporter creates an importer writing through svc.
func NewImporter(svc *content.Service) *Importer {
	return &Importer{content: svc}
}

// Import fetches up to maxCount items from feedURL, extracts their
// full content, and creates an article per item. Items that fail to
// extract are still created from their feed summary.
func (i *Importer) Import(ctx context.Context, feedURL string, maxCount int) (*ImportResult, error) {
	feedURL = ResolveURL(feedURL)
	drafts, err := FetchFeed(feedURL, maxCount)
	if err != nil {
		return nil, err
	}
	log.Printf("fetched %d items from %s", len(drafts), feedURL)

	ExtractAllContent(drafts)

	result := &ImportResult{Fetched: len(drafts)}
	for _, draft := range drafts {
		if draft.ExtractionError == "" {
			result.Extracted++
		}
		id, err := i.content.AddArticle(ctx, draft.Article)
		if err != nil {
			result.Failed++
			log.Printf("failed to import %q: %v", draft.Article.Title, err)
			continue
		}
		result.Created++
		result.IDs = append(result.IDs, id)
	}
	return result, nil
}
