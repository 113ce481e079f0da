package content

import (
	"context"
	"fmt"
	"log"

	"studio/docstore"
	"studio/types"
)

// Categories returns the cached category list, name ascending.
func (s *Service) Categories() []types.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// RefreshCategories re-fetches the whole categories collection, name
// ascending, and replaces the cache with the result.
func (s *Service) RefreshCategories(ctx context.Context) ([]types.Category, error) {
	gen := s.beginRefresh(types.CollectionCategories)

	docs, err := s.store.List(ctx, types.CollectionCategories,
		docstore.Order{Field: "name"})
	if err := s.absorbReadError("categories", err); err != nil {
		return nil, err
	}
	if err != nil {
		docs = nil
	}

	categories := make([]types.Category, 0, len(docs))
	for _, doc := range docs {
		var c types.Category
		if err := decodeDoc(doc, &c); err != nil {
			log.Printf("skipping malformed category document: %v", err)
			continue
		}
		categories = append(categories, c)
	}

	s.commit(types.CollectionCategories, gen, func() { s.categories = categories })
	return categories, nil
}

// AddCategory creates a category. An empty Type defaults to "blog".
//
// Articles and Projects reference categories by name, and deleting or
// renaming a category deliberately does not cascade to them.
func (s *Service) AddCategory(ctx context.Context, category types.Category) (string, error) {
	if category.Name == "" {
		return "", fmt.Errorf("category name is required")
	}
	if category.Type == "" {
		category.Type = types.CategoryTypeBlog
	}

	id, err := s.store.Create(ctx, types.CollectionCategories, docstore.Document{
		"name": category.Name,
		"type": category.Type,
	})
	if err != nil {
		return "", err
	}
	s.refreshAfterMutation(ctx, types.CollectionCategories)
	s.publish(types.CollectionCategories, OpCreated, id)
	return id, nil
}

// AddCategoryName creates a category from a bare name with the default
// "blog" type.
func (s *Service) AddCategoryName(ctx context.Context, name string) (string, error) {
	return s.AddCategory(ctx, types.Category{Name: name})
}

// DeleteCategory removes the category and refreshes the cache. Content
// referencing the name keeps its now-dangling reference.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, types.CollectionCategories, id); err != nil {
		return err
	}
	s.refreshAfterMutation(ctx, types.CollectionCategories)
	s.publish(types.CollectionCategories, OpDeleted, id)
	return nil
}
