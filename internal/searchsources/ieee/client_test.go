package ieee

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sauham/paper-bias-detection/internal/domain"
)

func TestClient_Search(t *testing.T) {
	t.Run("returns empty without network call when key missing", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, Enabled: true}, nil)
		candidates, err := client.Search(context.Background(), "query", 10)

		require.NoError(t, err)
		assert.Empty(t, candidates)
		assert.False(t, called, "no request should be made without an API key")
	})

	t.Run("maps articles to candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/articles", r.URL.Path)
			assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
			assert.Equal(t, "signal processing", r.URL.Query().Get("querytext"))

			_, _ = w.Write([]byte(`{
				"total_records": 1,
				"articles": [
					{"title": "Adaptive Filters", "abstract": "A filter study",
					 "abstract_url": "https://ieeexplore.ieee.org/abstract/1"}
				]
			}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, APIKey: "secret", Enabled: true}, nil)
		candidates, err := client.Search(context.Background(), "signal processing", 10)

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Adaptive Filters", candidates[0].Title)
		assert.Equal(t, "A filter study", candidates[0].Abstract)
		assert.Equal(t, "https://ieeexplore.ieee.org/abstract/1", candidates[0].URL)
		assert.Equal(t, domain.SourceTypeIEEE, candidates[0].Source)
	})

	t.Run("builds document url from article number", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"articles": [{"title": "No Link", "article_number": "12345"}]}`))
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, APIKey: "secret", Enabled: true}, nil)
		candidates, err := client.Search(context.Background(), "query", 10)

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "https://ieeexplore.ieee.org/document/12345", candidates[0].URL)
	})

	t.Run("returns error on server failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		client := New(Config{BaseURL: server.URL, APIKey: "bad", Enabled: true}, nil)
		_, err := client.Search(context.Background(), "query", 10)

		require.Error(t, err)
	})
}

func TestClient_IsEnabled(t *testing.T) {
	t.Run("disabled without api key", func(t *testing.T) {
		client := New(Config{Enabled: true}, nil)
		assert.False(t, client.IsEnabled())
	})

	t.Run("disabled by configuration", func(t *testing.T) {
		client := New(Config{APIKey: "secret"}, nil)
		assert.False(t, client.IsEnabled())
	})

	t.Run("enabled with key and flag", func(t *testing.T) {
		client := New(Config{APIKey: "secret", Enabled: true}, nil)
		assert.True(t, client.IsEnabled())
	})
}
