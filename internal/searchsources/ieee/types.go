package ieee

// searchResponse is the top-level response from the articles endpoint.
type searchResponse struct {
	TotalRecords int            `json:"total_records"`
	Articles     []articleEntry `json:"articles"`
}

// articleEntry is a single article in a search response.
type articleEntry struct {
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	AbstractURL   string `json:"abstract_url"`
	HTMLURL       string `json:"html_url"`
	PDFURL        string `json:"pdf_url"`
	ArticleNumber string `json:"article_number"`
}

// documentURL picks the best available link for the article, preferring
// the abstract page and falling back to a URL built from the article
// number.
func (a articleEntry) documentURL() string {
	switch {
	case a.AbstractURL != "":
		return a.AbstractURL
	case a.HTMLURL != "":
		return a.HTMLURL
	case a.PDFURL != "":
		return a.PDFURL
	default:
		return documentBaseURL + a.ArticleNumber
	}
}
