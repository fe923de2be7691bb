package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

func newTestClient(serverURL string) *Client {
	return New(Config{
		BaseURL: serverURL,
		Enabled: true,
	}, nil)
}

func TestClient_Search(t *testing.T) {
	t.Run("maps works to candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/works", r.URL.Path)
			assert.Equal(t, "protein folding", r.URL.Query().Get("search"))
			assert.NotEmpty(t, r.URL.Query().Get("mailto"))

			_, _ = w.Write([]byte(`{
				"results": [
					{"id": "https://openalex.org/W1", "title": "Work One",
					 "abstract_inverted_index": {"folding": [1], "protein": [0], "study": [2]}}
				]
			}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		candidates, err := client.Search(context.Background(), "protein folding", 10)

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Work One", candidates[0].Title)
		assert.Equal(t, "protein folding study", candidates[0].Abstract)
		assert.Equal(t, "https://openalex.org/W1", candidates[0].URL)
		assert.Equal(t, domain.SourceTypeOpenAlex, candidates[0].Source)
	})

	t.Run("falls back to display name for title", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results": [{"id": "W2", "display_name": "Display Title"}]}`))
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		candidates, err := client.Search(context.Background(), "query", 10)

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Display Title", candidates[0].Title)
		assert.Equal(t, "", candidates[0].Abstract)
	})

	t.Run("returns error on server failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := newTestClient(server.URL)
		_, err := client.Search(context.Background(), "query", 10)

		require.Error(t, err)
	})
}

func TestReconstructAbstract(t *testing.T) {
	t.Run("orders words by position", func(t *testing.T) {
		index := map[string][]int{
			"models": {2},
			"deep":   {0},
			"neural": {1},
		}

		assert.Equal(t, "deep neural models", reconstructAbstract(index))
	})

	t.Run("repeated words appear at each position", func(t *testing.T) {
		index := map[string][]int{
			"the":   {0, 2},
			"cat":   {1},
			"mouse": {3},
		}

		assert.Equal(t, "the cat the mouse", reconstructAbstract(index))
	})

	t.Run("empty index yields empty abstract", func(t *testing.T) {
		assert.Equal(t, "", reconstructAbstract(nil))
		assert.Equal(t, "", reconstructAbstract(map[string][]int{}))
	})
}

func TestClient_Metadata(t *testing.T) {
	client := New(Config{Enabled: true}, nil)

	assert.Equal(t, domain.SourceTypeOpenAlex, client.SourceType())
	assert.Equal(t, "OpenAlex", client.Name())
	assert.True(t, client.IsEnabled())
}
