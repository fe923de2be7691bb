package openalex

// searchResponse is the top-level response from the works endpoint.
type searchResponse struct {
	Results []workEntry `json:"results"`
}

// workEntry is a single work in a search response. OpenAlex returns the
// abstract as an inverted index rather than plain text.
type workEntry struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	DisplayName           string           `json:"display_name"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}
