package content

import (
	"context"
	"log"

	"studio/docstore"
	"studio/types"
)

// Projects returns the cached project list, newest first.
func (s *Service) Projects() []types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// FeaturedProjects returns at most FeaturedLimit featured projects.
func (s *Service) FeaturedProjects() []types.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Project, 0, FeaturedLimit)
	for _, p := range s.projects {
		if p.Featured {
			out = append(out, p)
			if len(out) == FeaturedLimit {
				break
			}
		}
	}
	return out
}

// RefreshProjects re-fetches the whole projects collection, creation
// time descending, and replaces the cache with the result.
func (s *Service) RefreshProjects(ctx context.Context) ([]types.Project, error) {
	gen := s.beginRefresh(types.CollectionProjects)

	docs, err := s.store.List(ctx, types.CollectionProjects,
		docstore.Order{Field: docstore.FieldCreatedAt, Desc: true})
	if err := s.absorbReadError("projects", err); err != nil {
		return nil, err
	}
	if err != nil {
		docs = nil
	}

	projects := make([]types.Project, 0, len(docs))
	for _, doc := range docs {
		var p types.Project
		if err := decodeDoc(doc, &p); err != nil {
			log.Printf("skipping malformed project document: %v", err)
			continue
		}
		projects = append(projects, p)
	}

	s.commit(types.CollectionProjects, gen, func() { s.projects = projects })
	return projects, nil
}

// ProjectByID fetches one project directly from the store. A missing
// id is reported as (nil, nil), not an error.
func (s *Service) ProjectByID(ctx context.Context, id string) (*types.Project, error) {
	doc, err := s.store.Get(ctx, types.CollectionProjects, id)
	if err == docstore.ErrNotFound {
		return nil, nil
	}
	if err := s.absorbReadError("project "+id, err); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, nil
	}

	var p types.Project
	if err := decodeDoc(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// AddProject writes a new project and refreshes the cache.
func (s *Service) AddProject(ctx context.Context, project types.Project) (string, error) {
	doc, err := encodeDoc(project)
	if err != nil {
		return "", err
	}

	id, err := s.store.Create(ctx, types.CollectionProjects, doc)
	if err != nil {
		return "", err
	}
	s.refreshAfterMutation(ctx, types.CollectionProjects)
	s.publish(types.CollectionProjects, OpCreated, id)
	return id, nil
}

// UpdateProject merges data into the stored project and refreshes the
// cache.
func (s *Service) UpdateProject(ctx context.Context, id string, data docstore.Document) error {
	partial := data.Clone()
	stripProtected(partial)

	if err := s.store.Update(ctx, types.CollectionProjects, id, partial); err != nil {
		return err
	}
	s.refreshAfterMutation(ctx, types.CollectionProjects)
	s.publish(types.CollectionProjects, OpUpdated, id)
	return nil
}

// DeleteProject removes the project and refreshes the cache.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, types.CollectionProjects, id); err != nil {
		return err
	}
	s.refreshAfterMutation(ctx, types.CollectionProjects)
	s.publish(types.CollectionProjects, OpDeleted, id)
	return nil
}
