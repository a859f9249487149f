package diagrams

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/logging"
)

const (
	msgNotFound     = "Diagram not found"
	msgTitleTooLong = "Title too long (max 100 chars)"
	msgBadBody      = "Invalid request body"
)

type handler struct {
	svc Service
}

type checkpointReq struct {
	Content    *string `json:"content"`
	Title      *string `json:"title"`
	Emoji      *string `json:"emoji"`
	IsFavorite *bool   `json:"isFavorite"`
}

// bindOptionalJSON binds the body into v; an empty body leaves v untouched.
func bindOptionalJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

func (h *handler) list(c *gin.Context) {
	page, err := h.svc.ListPage(c.Request.Context(), domain.PageQuery{
		Limit:  queryInt(c, "limit"),
		Offset: queryInt(c, "offset"),
		Query:  c.Query("query"),
	})
	if err != nil {
		logging.New(c.Request.Context()).Error("GET /api/diagrams", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load diagrams"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handler) create(c *gin.Context) {
	var in domain.CreateInput
	if err := bindOptionalJSON(c, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadBody})
		return
	}

	d, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleTooLong})
			return
		}
		logging.New(c.Request.Context()).Error("POST /api/diagrams", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create diagram"})
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *handler) get(c *gin.Context) {
	d, found, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logging.New(c.Request.Context()).Error("GET /api/diagrams/:id", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load diagram"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handler) update(c *gin.Context) {
	var in domain.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadBody})
		return
	}

	d, found, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleTooLong})
			return
		}
		logging.New(c.Request.Context()).Error("PUT /api/diagrams/:id", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update diagram"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		logging.New(c.Request.Context()).Error("DELETE /api/diagrams/:id", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete diagram"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handler) listCheckpoints(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	_, found, err := h.svc.GetByID(ctx, id)
	if err != nil {
		logging.New(ctx).Error("GET /api/diagrams/:id/checkpoint", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load checkpoints"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}

	cps, err := h.svc.ListCheckpoints(ctx, id)
	if err != nil {
		logging.New(ctx).Error("GET /api/diagrams/:id/checkpoint", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load checkpoints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkpoints": cps})
}

func (h *handler) createCheckpoint(c *gin.Context) {
	var req checkpointReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadBody})
		return
	}
	if req.Content == nil || *req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	res, found, err := h.svc.CreateCheckpoint(c.Request.Context(), c.Param("id"), domain.CheckpointInput{
		Content:    *req.Content,
		Title:      req.Title,
		Emoji:      req.Emoji,
		IsFavorite: req.IsFavorite,
	})
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgTitleTooLong})
			return
		}
		logging.New(c.Request.Context()).Error("POST /api/diagrams/:id/checkpoint", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkpoint"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
		return
	}
	c.JSON(http.StatusOK, res)
}
