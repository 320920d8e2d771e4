package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yoshiken-lab/Photocon-sub001/internal/domain"
)

func TestMapMediaItem(t *testing.T) {
	t.Run("image with graph timestamp", func(t *testing.T) {
		item := mediaItem{
			ID:        "1789",
			Caption:   "beach at dusk #summerphoto",
			MediaType: "IMAGE",
			MediaURL:  "https://cdn.example.com/1789.jpg",
			Permalink: "https://www.instagram.com/p/abc/",
			Timestamp: "2026-07-12T18:45:00+0000",
			Username:  "hana",
		}

		got := mapMediaItem(&item)

		assert.Equal(t, "1789", got.MediaID)
		assert.Equal(t, domain.MediaImage, got.MediaType)
		assert.Equal(t, "hana", got.Username)
		assert.Equal(t, time.Date(2026, 7, 12, 18, 45, 0, 0, time.UTC), got.Timestamp.UTC())
	})

	t.Run("video", func(t *testing.T) {
		item := mediaItem{ID: "1790", MediaType: "VIDEO", Timestamp: "2026-07-12T18:45:00+0000"}
		got := mapMediaItem(&item)
		assert.Equal(t, domain.MediaVideo, got.MediaType)
	})

	t.Run("rfc3339 timestamp fallback", func(t *testing.T) {
		item := mediaItem{ID: "1791", MediaType: "IMAGE", Timestamp: "2026-07-12T18:45:00Z"}
		got := mapMediaItem(&item)
		assert.Equal(t, time.Date(2026, 7, 12, 18, 45, 0, 0, time.UTC), got.Timestamp.UTC())
	})

	t.Run("unparseable timestamp yields zero time", func(t *testing.T) {
		item := mediaItem{ID: "1792", MediaType: "IMAGE", Timestamp: "yesterday"}
		got := mapMediaItem(&item)
		assert.True(t, got.Timestamp.IsZero())
	})
}

func TestGetJSON(t *testing.T) {
	t.Run("sends bearer token and decodes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":[{"id":"17873440459141021"}]}`))
		}))
		defer srv.Close()

		c := &Client{httpClient: srv.Client(), accessToken: "token-123"}

		var result hashtagSearchResponse
		require.NoError(t, c.getJSON(context.Background(), srv.URL, &result))
		require.Len(t, result.Data, 1)
		assert.Equal(t, "17873440459141021", result.Data[0].ID)
	})

	t.Run("non-200 surfaces the body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
		}))
		defer srv.Close()

		c := &Client{httpClient: srv.Client(), accessToken: "expired"}

		err := c.getJSON(context.Background(), srv.URL, &struct{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
		assert.Contains(t, err.Error(), "Invalid OAuth access token")
	})
}
