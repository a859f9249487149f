// Package access serves the feature-flagged public API used by machine
// clients. It carries no CSRF check.
package access

import (
	"errors"
	"math"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams/domain"
	"github.com/atlantis-diagrams/atlantis-backend/internal/logging"
	"github.com/atlantis-diagrams/atlantis-backend/internal/markup"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// maxPage keeps (page-1)*limit inside int.
	maxPage = math.MaxInt / maxLimit
)

type handler struct {
	svc diagrams.Service
}

type summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type createReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Register mounts the access routes. When enabled is false every route
// answers 403 with a plain-text body.
func Register(g *gin.RouterGroup, svc diagrams.Service, enabled bool, mw ...gin.HandlerFunc) {
	h := &handler{svc: svc}

	chain := slices.Clip(append([]gin.HandlerFunc{gate(enabled)}, mw...))
	g.GET("", append(chain, h.list)...)
	g.POST("", append(chain, h.create)...)
	g.GET("/:id", append(chain, h.get)...)
}

func gate(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.String(http.StatusForbidden, "API Access Disabled")
			c.Abort()
			return
		}
		c.Next()
	}
}

// intParam parses an integer query value. Out-of-range numbers saturate to
// the int bounds; anything else unparsable yields def.
func intParam(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return def
	}
	return n
}

func (h *handler) list(c *gin.Context) {
	page := min(max(intParam(c, "page", defaultPage), 1), maxPage)
	limit := min(max(intParam(c, "limit", defaultLimit), 1), maxLimit)

	res, err := h.svc.ListPage(c.Request.Context(), domain.PageQuery{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		logging.New(c.Request.Context()).Error("GET /api/access", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	data := make([]summary, 0, len(res.Items))
	for _, d := range res.Items {
		data = append(data, summary{ID: d.ID, Title: d.Title})
	}
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"pagination": pagination{
			Page:       page,
			Limit:      limit,
			Total:      res.Total,
			TotalPages: (res.Total + limit - 1) / limit,
		},
	})
}

func (h *handler) get(c *gin.Context) {
	d, found, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		logging.New(c.Request.Context()).Error("GET /api/access/:id", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Diagram not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}
	if _, err := markup.DetectType(req.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Mermaid syntax", "details": err.Error()})
		return
	}

	in := domain.CreateInput{Content: &req.Content}
	if req.Title != "" {
		in.Title = &req.Title
	}
	d, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title too long (max 100 chars)"})
			return
		}
		logging.New(c.Request.Context()).Error("POST /api/access", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, d)
}
