package domain

import "fmt"

// Profile is a named, persisted configuration of mods, load order, and
// packs for one game installation. Name is the primary key across the store.
type Profile struct {
	Name          string            `json:"name"`
	GameID        string            `json:"game_id"`
	Mods          map[string]Mod    `json:"mods"`
	LoadOrder     []string          `json:"load_order"`
	ResourcePacks []string          `json:"resource_packs"`
	DataPacks     []string          `json:"data_packs"`
	Config        map[string]string `json:"config"`
}

// NewProfile creates an empty profile for a game.
func NewProfile(name, gameID string) *Profile {
	return &Profile{
		Name:          name,
		GameID:        gameID,
		Mods:          make(map[string]Mod),
		LoadOrder:     []string{},
		ResourcePacks: []string{},
		DataPacks:     []string{},
		Config:        make(map[string]string),
	}
}

// Validate checks the load-order invariant: LoadOrder must be an exact
// permutation of the mod set's keys. Violations are reported, never repaired.
func (p *Profile) Validate() error {
	if len(p.LoadOrder) != len(p.Mods) {
		return fmt.Errorf("%w: %d mods but %d load order entries",
			ErrInvalidLoadOrder, len(p.Mods), len(p.LoadOrder))
	}

	seen := make(map[string]bool, len(p.LoadOrder))
	for _, id := range p.LoadOrder {
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %q in load order", ErrInvalidLoadOrder, id)
		}
		seen[id] = true
		if _, ok := p.Mods[id]; !ok {
			return fmt.Errorf("%w: load order references unknown mod %q", ErrInvalidLoadOrder, id)
		}
	}

	return nil
}

// Normalize replaces nil collections with empty ones so a decoded profile
// behaves the same as a freshly created one.
func (p *Profile) Normalize() {
	if p.Mods == nil {
		p.Mods = make(map[string]Mod)
	}
	if p.LoadOrder == nil {
		p.LoadOrder = []string{}
	}
	if p.ResourcePacks == nil {
		p.ResourcePacks = []string{}
	}
	if p.DataPacks == nil {
		p.DataPacks = []string{}
	}
	if p.Config == nil {
		p.Config = make(map[string]string)
	}
}

// Clone returns a deep copy of the profile. The store hands out clones so
// no caller holds live store state past the lifetime of a single call.
func (p *Profile) Clone() *Profile {
	out := &Profile{
		Name:          p.Name,
		GameID:        p.GameID,
		Mods:          make(map[string]Mod, len(p.Mods)),
		LoadOrder:     append([]string{}, p.LoadOrder...),
		ResourcePacks: append([]string{}, p.ResourcePacks...),
		DataPacks:     append([]string{}, p.DataPacks...),
		Config:        make(map[string]string, len(p.Config)),
	}
	for id, m := range p.Mods {
		out.Mods[id] = m.Clone()
	}
	for k, v := range p.Config {
		out.Config[k] = v
	}
	return out
}
