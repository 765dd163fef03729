// Package store keeps the live mapping of profile name to profile and
// persists every mutation before it is visible to callers.
package store

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"modrith/internal/domain"
	"modrith/internal/storage/paths"
	"modrith/internal/storage/profiles"
)

// Store owns all in-memory profile instances. Mutations are applied to a
// clone, persisted, and only then swapped in, so memory and disk never
// diverge after a successful call and a failed one leaves no trace.
type Store struct {
	mu       sync.RWMutex
	layout   paths.Layout
	profiles map[string]*domain.Profile
}

// New creates an empty store over the given layout.
func New(layout paths.Layout) *Store {
	return &Store{
		layout:   layout,
		profiles: make(map[string]*domain.Profile),
	}
}

// Put registers an already-persisted profile (used during startup loading
// and after an explicit reload). It does not write to disk.
func (s *Store) Put(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Name] = p.Clone()
}

// Create makes a new empty profile and persists it immediately.
func (s *Store) Create(name, gameID string) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; ok {
		return nil, fmt.Errorf("creating profile %q: %w", name, domain.ErrProfileExists)
	}

	p := domain.NewProfile(name, gameID)
	if err := profiles.Save(s.layout, p); err != nil {
		return nil, err
	}

	s.profiles[name] = p
	return p.Clone(), nil
}

// Insert registers and persists a fully formed profile (modpack import,
// restored backups). Fails with ErrProfileExists on a name collision.
func (s *Store) Insert(p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.Name]; ok {
		return fmt.Errorf("inserting profile %q: %w", p.Name, domain.ErrProfileExists)
	}

	clone := p.Clone()
	if err := profiles.Save(s.layout, clone); err != nil {
		return err
	}

	s.profiles[p.Name] = clone
	return nil
}

// Get returns a copy of the named profile.
func (s *Store) Get(name string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("getting profile %q: %w", name, domain.ErrProfileNotFound)
	}
	return p.Clone(), nil
}

// List returns all profile names, sorted.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete removes the profile from disk and memory.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("deleting profile %q: %w", name, domain.ErrProfileNotFound)
	}

	if err := profiles.Delete(s.layout, name); err != nil {
		return err
	}

	delete(s.profiles, name)
	return nil
}

// Forget drops a profile from memory without touching disk. Used when the
// on-disk state changed underneath the store (e.g. a restore over a live
// profile) and the caller wants to reload explicitly.
func (s *Store) Forget(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, name)
}

// AddMod adds a mod to a profile and appends its id to the load order.
func (s *Store) AddMod(profileName string, mod domain.Mod) error {
	return s.mutate(profileName, func(p *domain.Profile) error {
		if _, ok := p.Mods[mod.ID]; ok {
			return fmt.Errorf("adding mod %q to %q: %w", mod.ID, profileName, domain.ErrDuplicateMod)
		}
		p.Mods[mod.ID] = mod.Clone()
		p.LoadOrder = append(p.LoadOrder, mod.ID)
		return nil
	})
}

// RemoveMod removes a mod from both the mod set and the load order.
func (s *Store) RemoveMod(profileName, modID string) error {
	return s.mutate(profileName, func(p *domain.Profile) error {
		if _, ok := p.Mods[modID]; !ok {
			return fmt.Errorf("removing mod %q from %q: %w", modID, profileName, domain.ErrModNotFound)
		}
		delete(p.Mods, modID)
		p.LoadOrder = slices.DeleteFunc(p.LoadOrder, func(id string) bool { return id == modID })
		return nil
	})
}

// Reorder replaces the load order. The new order must be an exact
// permutation of the current mod ids.
func (s *Store) Reorder(profileName string, newOrder []string) error {
	return s.mutate(profileName, func(p *domain.Profile) error {
		p.LoadOrder = append([]string{}, newOrder...)
		if err := p.Validate(); err != nil {
			return fmt.Errorf("reordering %q: %w", profileName, err)
		}
		return nil
	})
}

// SetModEnabled flips the enabled flag of one mod.
func (s *Store) SetModEnabled(profileName, modID string, enabled bool) error {
	return s.mutate(profileName, func(p *domain.Profile) error {
		m, ok := p.Mods[modID]
		if !ok {
			return fmt.Errorf("updating mod %q in %q: %w", modID, profileName, domain.ErrModNotFound)
		}
		m.Enabled = enabled
		p.Mods[modID] = m
		return nil
	})
}

// SetGameID changes the game version a profile targets.
func (s *Store) SetGameID(profileName, gameID string) error {
	return s.mutate(profileName, func(p *domain.Profile) error {
		p.GameID = gameID
		return nil
	})
}

// SetConfigValue sets one key in the profile's free-form configuration.
func (s *Store) SetConfigValue(profileName, key, value string) error {
	return s.mutate(profileName, func(p *domain.Profile) error {
		p.Config[key] = value
		return nil
	})
}

// AddResourcePack appends a resource pack reference.
func (s *Store) AddResourcePack(profileName, pack string) error {
	return s.mutate(profileName, func(p *domain.Profile) error {
		p.ResourcePacks = append(p.ResourcePacks, pack)
		return nil
	})
}

// AddDataPack appends a data pack reference.
func (s *Store) AddDataPack(profileName, pack string) error {
	return s.mutate(profileName, func(p *domain.Profile) error {
		p.DataPacks = append(p.DataPacks, pack)
		return nil
	})
}

// mutate applies fn to a clone of the profile, persists the clone, and
// swaps it in only when both succeed.
func (s *Store) mutate(profileName string, fn func(*domain.Profile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.profiles[profileName]
	if !ok {
		return fmt.Errorf("profile %q: %w", profileName, domain.ErrProfileNotFound)
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return err
	}

	if err := profiles.Save(s.layout, next); err != nil {
		return err
	}

	s.profiles[profileName] = next
	return nil
}
