package domain

// Mod is a unit of game content tracked inside a profile.
// The ID is the key in the profile's mod set and must never be
// duplicated within one profile.
type Mod struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Files        []string          `json:"files"`
	Dependencies map[string]string `json:"dependencies"` // dep id -> version constraint
	Checksum     string            `json:"checksum"`     // hex digest of the mod content
	SourceURL    string            `json:"source_url"`
	Enabled      bool              `json:"enabled"`
}

// Clone returns a deep copy of the mod.
func (m Mod) Clone() Mod {
	out := m
	if m.Files != nil {
		out.Files = append([]string(nil), m.Files...)
	}
	if m.Dependencies != nil {
		out.Dependencies = make(map[string]string, len(m.Dependencies))
		for k, v := range m.Dependencies {
			out.Dependencies[k] = v
		}
	}
	return out
}

// SearchResult is one hit returned by the mod index.
type SearchResult struct {
	ID            string
	Name          string
	LatestVersion string
	Description   string
	Downloads     int64
	SourceURL     string
}
