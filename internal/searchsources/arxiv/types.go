package arxiv

import "encoding/xml"

// feed represents the Atom XML response from the arXiv API.
type feed struct {
	XMLName      xml.Name `xml:"feed"`
	TotalResults int      `xml:"totalResults"`
	Entries      []entry  `xml:"entry"`
}

// entry represents a single arXiv paper in the Atom feed.
type entry struct {
	ID      string `xml:"id"` // "http://arxiv.org/abs/2301.12345v1"
	Title   string `xml:"title"`
	Summary string `xml:"summary"` // abstract
}
