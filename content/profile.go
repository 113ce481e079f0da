package content

import (
	"context"

	"studio/docstore"
	"studio/types"
)

// Profile returns the cached profile singleton, or nil when none has
// been saved yet.
func (s *Service) Profile() *types.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// RefreshProfile re-fetches the profile singleton. Absence is not an
// error: the site simply has no profile until the first save.
func (s *Service) RefreshProfile(ctx context.Context) (*types.Profile, error) {
	gen := s.beginRefresh(types.CollectionSettings)

	doc, err := s.store.Get(ctx, types.CollectionSettings, types.ProfileID)
	if err == docstore.ErrNotFound {
		s.commit(types.CollectionSettings, gen, func() { s.profile = nil })
		return nil, nil
	}
	if err := s.absorbReadError("profile", err); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, nil
	}

	var p types.Profile
	if err := decodeDoc(doc, &p); err != nil {
		return nil, err
	}
	s.commit(types.CollectionSettings, gen, func() { s.profile = &p })
	return &p, nil
}

// UpdateProfile merges data into the profile singleton, creating it on
// first save, then refreshes the cache.
func (s *Service) UpdateProfile(ctx context.Context, data docstore.Document) error {
	partial := data.Clone()
	stripProtected(partial)

	err := s.store.Update(ctx, types.CollectionSettings, types.ProfileID, partial)
	if err == docstore.ErrNotFound {
		err = s.store.Set(ctx, types.CollectionSettings, types.ProfileID, partial)
	}
	if err != nil {
		return err
	}
	s.refreshAfterMutation(ctx, types.CollectionSettings)
	s.publish(types.CollectionSettings, OpUpdated, types.ProfileID)
	return nil
}
