package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMetadata(t *testing.T) {
	t.Run("extracts title year and doi", func(t *testing.T) {
		text := "Attention Is All You Need\n" +
			"Published 2017\n" +
			"doi: 10.48550/arXiv.1706.03762\n" +
			"body text"
		meta := ExtractMetadata(text)

		assert.Equal(t, "Attention Is All You Need", meta.Title)
		assert.Equal(t, "2017", meta.Year)
		assert.Equal(t, "10.48550/arXiv.1706.03762", meta.DOI)
	})

	t.Run("missing fields are empty", func(t *testing.T) {
		meta := ExtractMetadata("Untitled draft without dates")

		assert.Equal(t, "Untitled draft without dates", meta.Title)
		assert.Equal(t, "", meta.Year)
		assert.Equal(t, "", meta.DOI)
	})

	t.Run("empty text yields empty metadata", func(t *testing.T) {
		meta := ExtractMetadata("")

		assert.Equal(t, "", meta.Title)
		assert.Equal(t, "", meta.Year)
		assert.Equal(t, "", meta.DOI)
	})

	t.Run("first year match wins", func(t *testing.T) {
		meta := ExtractMetadata("Report\nrevised 1998, reprinted 2004")

		assert.Equal(t, "1998", meta.Year)
	})
}
