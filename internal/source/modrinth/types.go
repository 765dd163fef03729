package modrinth

// Modrinth API v2 response types
// API docs: https://docs.modrinth.com/api-spec/

// searchResponse wraps the /search endpoint response
type searchResponse struct {
	Hits      []projectHit `json:"hits"`
	Offset    int          `json:"offset"`
	Limit     int          `json:"limit"`
	TotalHits int          `json:"total_hits"`
}

// projectHit is one search result from the index
type projectHit struct {
	ProjectID     string   `json:"project_id"`
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Downloads     int64    `json:"downloads"`
	LatestVersion string   `json:"latest_version"`
	Versions      []string `json:"versions"`
	ProjectType   string   `json:"project_type"`
	Author        string   `json:"author"`
}

// project is the full detail object from /project/{id}
type project struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Downloads   int64  `json:"downloads"`
	ProjectType string `json:"project_type"`
}
