package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ScribblesProject/tams/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, time.Second, zap.NewNop())
}

func assetJSON(id int, name string) string {
	return fmt.Sprintf(`{
		"id": %d, "name": %q, "description": "d",
		"category": "c", "category-id": 1, "category-description": "",
		"type-name": "t", "media-image-url": "", "media-voice-url": "",
		"locations": {}
	}`, id, name)
}

func TestListParsesAssets(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/asset/list/", r.URL.Path)
		fmt.Fprintf(w, `{"assets": [%s, %s]}`, assetJSON(1, "Fountain"), assetJSON(2, "Bench"))
	}))

	assets := client.List(context.Background())
	require.Len(t, assets, 2)
	assert.Equal(t, "Fountain", assets[0].Name)
	assert.Equal(t, 2, assets[1].ID)
}

func TestListFailsOpen(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, `{"assets": [`)
			},
		},
		{
			name: "record missing required field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, `{"assets": [{"id": 1}]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			assets := client.List(context.Background())
			assert.NotNil(t, assets)
			assert.Empty(t, assets)
		})
	}

	t.Run("unreachable server", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", time.Second, zap.NewNop())
		assets := client.List(context.Background())
		assert.NotNil(t, assets)
		assert.Empty(t, assets)
	})
}

func TestCreate(t *testing.T) {
	asset := models.Asset{
		Name: "Fountain", Description: "d",
		Category: models.Category{Name: "Landmark"}, TypeName: "Water Feature",
		Locations: models.LocationSet{1: {Latitude: 1, Longitude: 2}},
	}

	t.Run("success returns assigned id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/asset/create/", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var received models.Asset
			if assert.NoError(t, json.NewDecoder(r.Body).Decode(&received)) {
				assert.Equal(t, "Fountain", received.Name)
			}

			io.WriteString(w, `{"success": true, "id": 42}`)
		}))

		ok, id := client.Create(context.Background(), asset)
		assert.True(t, ok)
		assert.Equal(t, 42, id)
	})

	t.Run("success without id is a failure", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"success": true}`)
		}))

		ok, id := client.Create(context.Background(), asset)
		assert.False(t, ok)
		assert.Zero(t, id)
	})

	t.Run("server rejection", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"success": false}`)
		}))

		ok, _ := client.Create(context.Background(), asset)
		assert.False(t, ok)
	})
}

func TestUpdateAndDelete(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		io.WriteString(w, `{"success": true}`)
	}))

	assert.True(t, client.Update(context.Background(), models.Asset{ID: 7, Name: "n"}))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/asset/update/7/", gotPath)

	assert.True(t, client.Delete(context.Background(), 7))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/asset/delete/7/", gotPath)
}

func TestCategoryAndTypeListFailClosed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/asset/category/list/":
			io.WriteString(w, `{"categories": [{"id": 1, "name": "Landmark", "description": ""}]}`)
		case "/api/asset/type/list/1/":
			io.WriteString(w, `{"types": [{"id": 3, "name": "Water Feature"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	categories := client.CategoryList(context.Background())
	require.Len(t, categories, 1)
	assert.Equal(t, "Landmark", categories[0].Name)

	types := client.TypeList(context.Background(), 1)
	require.Len(t, types, 1)
	assert.Equal(t, "Water Feature", types[0].Name)

	// Unknown category: 404 degrades to empty.
	assert.Empty(t, client.TypeList(context.Background(), 9))
}

func TestUploadImageReportsMonotoneProgress(t *testing.T) {
	payload := make([]byte, 256*1024)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/asset/media/image-upload/42/", r.URL.Path)
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Len(t, body, len(payload))

		io.WriteString(w, `{"success": true}`)
	}))

	var fractions []float64
	ok := client.UploadImage(context.Background(), 42, payload, func(fraction float64) {
		fractions = append(fractions, fraction)
	})
	assert.True(t, ok)

	require.NotEmpty(t, fractions)
	last := 0.0
	for _, fraction := range fractions {
		assert.GreaterOrEqual(t, fraction, last)
		assert.LessOrEqual(t, fraction, 1.0)
		last = fraction
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestUploadMemo(t *testing.T) {
	memoPath := filepath.Join(t.TempDir(), "memo.aac")
	require.NoError(t, os.WriteFile(memoPath, []byte("aac-bytes"), 0o600))

	t.Run("streams the file", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/asset/media/voice-upload/42/", r.URL.Path)
			assert.Equal(t, "audio/aac", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.Equal(t, "aac-bytes", string(body))

			io.WriteString(w, `{"success": true}`)
		}))

		assert.True(t, client.UploadMemo(context.Background(), 42, memoPath, nil))
	})

	t.Run("missing file is an upload failure", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Error("no request should be made for a missing file")
		}))

		assert.False(t, client.UploadMemo(context.Background(), 42, filepath.Join(t.TempDir(), "gone.aac"), nil))
	})
}
