package backup

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlantis-diagrams/atlantis-backend/internal/diagrams"
	"github.com/atlantis-diagrams/atlantis-backend/internal/logging"
)

const maxRestoreBytes = 64 << 20

type handler struct {
	svc diagrams.Service
}

// Register mounts GET and POST on g. read and write are prepended to the
// respective handlers.
func Register(g *gin.RouterGroup, svc diagrams.Service, read, write []gin.HandlerFunc) {
	h := &handler{svc: svc}
	g.GET("", append(append([]gin.HandlerFunc{}, read...), h.export)...)
	g.POST("", append(append([]gin.HandlerFunc{}, write...), h.restore)...)
}

func (h *handler) export(c *gin.Context) {
	ds, err := h.svc.Export(c.Request.Context())
	if err != nil {
		logging.New(c.Request.Context()).Error("GET /api/backup", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate backup"})
		return
	}
	data, err := Encode(ds)
	if err != nil {
		logging.New(c.Request.Context()).Error("GET /api/backup", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate backup"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+FileName+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (h *handler) restore(c *gin.Context) {
	ctx := c.Request.Context()
	fail := func(err error) {
		logging.New(ctx).Error("POST /api/backup", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to restore backup"})
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRestoreBytes))
	if err != nil {
		fail(err)
		return
	}
	records, err := Decode(body)
	if err != nil {
		fail(err)
		return
	}
	if err := h.svc.RestoreAll(ctx, records); err != nil {
		fail(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(records)})
}
