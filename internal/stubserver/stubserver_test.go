package stubserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ScribblesProject/tams/internal/assets"
	"github.com/ScribblesProject/tams/internal/backend"
	"github.com/ScribblesProject/tams/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBackend(t *testing.T) (*backend.Client, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	server := httptest.NewServer(NewRouter(store, zap.NewNop()))
	t.Cleanup(server.Close)

	return backend.NewClient(server.URL, 5*time.Second, zap.NewNop()), server.URL
}

func newSession(t *testing.T) *assets.EditSession {
	t.Helper()

	memoPath := filepath.Join(t.TempDir(), "memo.aac")
	require.NoError(t, os.WriteFile(memoPath, []byte("aac-bytes"), 0o600))

	session := assets.NewCreateSession()
	session.SetName("Fountain")
	session.SetDescription("Quad fountain")
	session.SelectCategory(models.Category{ID: models.SentinelID, Name: "Landmark", Description: "Campus landmarks"})
	session.SelectType("Water Feature")
	session.SetLocations([]models.Coordinate{
		{Latitude: 38.56, Longitude: -121.42},
		{Latitude: 38.57, Longitude: -121.43},
	})
	session.AttachImage([]byte{0xff, 0xd8, 0xff, 0xe0})
	session.AttachMemo(memoPath)
	return session
}

func TestCreateListRoundTrip(t *testing.T) {
	client, baseURL := newTestBackend(t)
	ctx := context.Background()

	require.Empty(t, client.List(ctx))

	service := assets.NewSaveService(client, zap.NewNop())
	result, err := service.Save(ctx, newSession(t))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.ImageUploaded)
	assert.True(t, result.MemoUploaded)
	require.Positive(t, result.AssetID)

	list := client.List(ctx)
	require.Len(t, list, 1)
	fetched := list[0]

	assert.Equal(t, result.AssetID, fetched.ID)
	assert.Equal(t, "Fountain", fetched.Name)
	assert.Equal(t, "Water Feature", fetched.TypeName)
	assert.Positive(t, fetched.Category.ID, "server assigns the category id")
	assert.Equal(t, "Landmark", fetched.Category.Name)
	assert.Equal(t, []int{1, 2}, fetched.Locations.Keys())
	assert.Equal(t, models.Coordinate{Latitude: 38.56, Longitude: -121.42}, fetched.Locations[1])
	assert.NotEmpty(t, fetched.ImageURL)
	assert.NotEmpty(t, fetched.VoiceURL)

	// The echoed image URL serves the uploaded bytes.
	resp, err := http.Get(baseURL + fetched.ImageURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0xe0}, body)

	// Category and scoped types materialized from the asset payload.
	categories := client.CategoryList(ctx)
	require.Len(t, categories, 1)
	assert.Equal(t, "Landmark", categories[0].Name)
	assert.Equal(t, "Campus landmarks", categories[0].Description)

	types := client.TypeList(ctx, categories[0].ID)
	require.Len(t, types, 1)
	assert.Equal(t, "Water Feature", types[0].Name)
	assert.Empty(t, client.TypeList(ctx, categories[0].ID+1))
}

func TestUpdateRoundTrip(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()
	service := assets.NewSaveService(client, zap.NewNop())

	result, err := service.Save(ctx, newSession(t))
	require.NoError(t, err)
	require.True(t, result.Success)

	original := client.List(ctx)[0]
	session := assets.NewUpdateSession(original)
	session.SetDescription("Renovated quad fountain")
	session.SetLocations([]models.Coordinate{{Latitude: 38.60, Longitude: -121.50}})

	updated, err := service.Save(ctx, session)
	require.NoError(t, err)
	assert.True(t, updated.Success)
	assert.Equal(t, original.ID, updated.AssetID)
	// No media attached this time, so neither upload ran.
	assert.False(t, updated.ImageUploaded)
	assert.False(t, updated.MemoUploaded)

	fetched := client.List(ctx)[0]
	assert.Equal(t, "Renovated quad fountain", fetched.Description)
	assert.Equal(t, []int{1}, fetched.Locations.Keys())
	assert.NotEmpty(t, fetched.ImageURL, "media survives a metadata update")
}

func TestUpdateUnknownAssetFails(t *testing.T) {
	client, _ := newTestBackend(t)
	asset := models.Asset{
		ID: 999, Name: "Ghost", Description: "d",
		Category: models.Category{Name: "Landmark"}, TypeName: "t",
		Locations: models.LocationSet{},
	}
	assert.False(t, client.Update(context.Background(), asset))
}

func TestDeleteRoundTrip(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()
	service := assets.NewSaveService(client, zap.NewNop())

	result, err := service.Save(ctx, newSession(t))
	require.NoError(t, err)
	require.True(t, result.Success)

	assert.True(t, client.Delete(ctx, result.AssetID))
	assert.False(t, client.Delete(ctx, result.AssetID), "second delete finds nothing")
	assert.Empty(t, client.List(ctx))
}

func TestUploadToUnknownAssetFails(t *testing.T) {
	client, _ := newTestBackend(t)
	assert.False(t, client.UploadImage(context.Background(), 999, []byte{0xff}, nil))
}
