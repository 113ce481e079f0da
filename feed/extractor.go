package feed

import (
	"fmt"
	"log"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const (
	workerCount      = 5
	extractorTimeout = 30 * time.Second
)

// ExtractAllContent fetches and extracts full content for all drafts
// using a worker pool. Failures are recorded on the draft, which keeps
// its feed-provided summary.
func ExtractAllContent(drafts []*Draft) {
	var wg sync.WaitGroup
	draftChan := make(chan *Draft, len(drafts))

	for i := 0; i < workerCount; i++ {
		go func(workerID int) {
			for draft := range draftChan {
				if err := extractContent(draft); err != nil {
					draft.ExtractionError = err.Error()
					log.Printf("[worker %d] failed to extract %s: %v", workerID, draft.SourceURL, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, draft := range drafts {
		wg.Add(1)
		draftChan <- draft
	}

	wg.Wait()
	close(draftChan)
}

// extractContent fetches and extracts full content for a single draft.
func extractContent(draft *Draft) error {
	if draft.SourceURL == "" {
		return fmt.Errorf("draft has no source URL")
	}

	extracted, err := readability.FromURL(draft.SourceURL, extractorTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	draft.Article.Content = extracted.Content
	if extracted.Excerpt != "" {
		draft.Article.Excerpt = extracted.Excerpt
	}
	if draft.Article.CoverImage == "" {
		draft.Article.CoverImage = extracted.Image
	}

	log.Printf("extracted: %s", draft.Article.Title)
	return nil
}
