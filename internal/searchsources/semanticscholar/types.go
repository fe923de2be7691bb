package semanticscholar

// searchResponse is the top-level response from the paper search endpoint.
type searchResponse struct {
	Total int          `json:"total"`
	Data  []paperEntry `json:"data"`
}

// paperEntry is a single paper in a search response.
type paperEntry struct {
	PaperID  string `json:"paperId"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	URL      string `json:"url"`
}
