package content

import (
	"context"
	"log"

	"studio/docstore"
	"studio/types"
)

// Articles returns the cached article list, newest first.
func (s *Service) Articles() []types.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// FeaturedArticles returns at most FeaturedLimit featured articles for
// the landing page.
func (s *Service) FeaturedArticles() []types.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Article, 0, FeaturedLimit)
	for _, a := range s.articles {
		if a.Featured {
			out = append(out, a)
			if len(out) == FeaturedLimit {
				break
			}
		}
	}
	return out
}

// RefreshArticles re-fetches the whole blogs collection, creation time
// descending, and replaces the cache with the result.
func (s *Service) RefreshArticles(ctx context.Context) ([]types.Article, error) {
	gen := s.beginRefresh(types.CollectionBlogs)

	docs, err := s.store.List(ctx, types.CollectionBlogs,
		docstore.Order{Field: docstore.FieldCreatedAt, Desc: true})
	if err := s.absorbReadError("blogs", err); err != nil {
		return nil, err
	}
	if err != nil {
		docs = nil
	}

	articles := make([]types.Article, 0, len(docs))
	for _, doc := range docs {
		var a types.Article
		if err := decodeDoc(doc, &a); err != nil {
			log.Printf("skipping malformed blog document: %v", err)
			continue
		}
		articles = append(articles, a)
	}

	s.commit(types.CollectionBlogs, gen, func() { s.articles = articles })
	return articles, nil
}

// ArticleByID fetches one article directly from the store, bypassing
// the cache. A missing id is reported as (nil, nil), not an error.
func (s *Service) ArticleByID(ctx context.Context, id string) (*types.Article, error) {
	doc, err := s.store.Get(ctx, types.CollectionBlogs, id)
	if err == docstore.ErrNotFound {
		return nil, nil
	}
	if err := s.absorbReadError("blog "+id, err); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, nil
	}

	var a types.Article
	if err := decodeDoc(doc, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AddArticle writes a new article and refreshes the cache. The store
// assigns id and timestamps.
func (s *Service) AddArticle(ctx context.Context, article types.Article) (string, error) {
	doc, err := encodeDoc(article)
	if err != nil {
		return "", err
	}

	id, err := s.store.Create(ctx, types.CollectionBlogs, doc)
	if err != nil {
		return "", err
	}
	s.refreshAfterMutation(ctx, types.CollectionBlogs)
	s.publish(types.CollectionBlogs, OpCreated, id)
	return id, nil
}

// UpdateArticle merges data into the stored article and refreshes the
// cache. Store-owned fields in data are ignored.
func (s *Service) UpdateArticle(ctx context.Context, id string, data docstore.Document) error {
	partial := data.Clone()
	stripProtected(partial)

	if err := s.store.Update(ctx, types.CollectionBlogs, id, partial); err != nil {
		return err
	}
	s.refreshAfterMutation(ctx, types.CollectionBlogs)
	s.publish(types.CollectionBlogs, OpUpdated, id)
	return nil
}

// DeleteArticle removes the article and refreshes the cache.
func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, types.CollectionBlogs, id); err != nil {
		return err
	}
	s.refreshAfterMutation(ctx, types.CollectionBlogs)
	s.publish(types.CollectionBlogs, OpDeleted, id)
	return nil
}
