package stubserver

import (
	"io"
	"net/http"
	"strconv"

	"github.com/ScribblesProject/tams/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds a gin engine serving the TAMS wire contract over the
// given store. Mutation endpoints answer {"success": bool} envelopes and
// collapse storage failures into success=false, matching what the client
// expects from the real service.
func NewRouter(store *Store, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &handler{store: store, log: log}

	router.GET("/api/asset/list/", h.listAssets)
	router.POST("/api/asset/create/", h.createAsset)
	router.POST("/api/asset/update/:id/", h.updateAsset)
	router.DELETE("/api/asset/delete/:id/", h.deleteAsset)
	router.GET("/api/asset/category/list/", h.listCategories)
	router.GET("/api/asset/type/list/:categoryID/", h.listTypes)
	router.POST("/api/asset/media/image-upload/:id/", h.uploadMedia("image"))
	router.POST("/api/asset/media/voice-upload/:id/", h.uploadMedia("voice"))
	router.GET("/api/asset/media/image/:id/", h.serveMedia("image", "image/jpeg"))
	router.GET("/api/asset/media/voice/:id/", h.serveMedia("voice", "audio/aac"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}

type handler struct {
	store *Store
	log   *zap.Logger
}

func (h *handler) listAssets(c *gin.Context) {
	assets, err := h.store.ListAssets()
	if err != nil {
		h.log.Error("list assets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

func (h *handler) createAsset(c *gin.Context) {
	var asset models.Asset
	if err := c.ShouldBindJSON(&asset); err != nil {
		h.log.Warn("malformed asset payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	id, err := h.store.CreateAsset(asset)
	if err != nil {
		h.log.Error("create asset failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	h.log.Info("asset created", zap.Int("id", id), zap.String("name", asset.Name))
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

func (h *handler) updateAsset(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var asset models.Asset
	if err := c.ShouldBindJSON(&asset); err != nil {
		h.log.Warn("malformed asset payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}
	asset.ID = id

	updated, err := h.store.UpdateAsset(asset)
	if err != nil {
		h.log.Error("update asset failed", zap.Int("id", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"success": err == nil && updated})
}

func (h *handler) deleteAsset(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.store.DeleteAsset(id)
	if err != nil {
		h.log.Error("delete asset failed", zap.Int("id", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"success": err == nil && deleted})
}

func (h *handler) listCategories(c *gin.Context) {
	categories, err := h.store.Categories()
	if err != nil {
		h.log.Error("list categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *handler) listTypes(c *gin.Context) {
	categoryID, ok := h.pathID(c, "categoryID")
	if !ok {
		return
	}

	types, err := h.store.Types(categoryID)
	if err != nil {
		h.log.Error("list types failed", zap.Int("categoryID", categoryID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list types"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

func (h *handler) uploadMedia(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false})
			return
		}

		stored, err := h.store.SaveMedia(id, kind, body)
		if err != nil {
			h.log.Error("store media failed", zap.String("kind", kind), zap.Int("id", id), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{"success": err == nil && stored})
	}
}

func (h *handler) serveMedia(kind, contentType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.pathID(c, "id")
		if !ok {
			return
		}

		body, found, err := h.store.Media(id, kind)
		if err != nil {
			h.log.Error("load media failed", zap.String("kind", kind), zap.Int("id", id), zap.Error(err))
			c.Status(http.StatusInternalServerError)
			return
		}
		if !found {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, contentType, body)
	}
}

func (h *handler) pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return 0, false
	}
	return id, true
}
