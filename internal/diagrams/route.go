package diagrams

import "github.com/gin-gonic/gin"

// Register mounts the diagram routes. read runs before GET handlers and write
// before mutating ones (CSRF, rate limiting).
func Register(g *gin.RouterGroup, svc Service, read, write []gin.HandlerFunc) {
	h := &handler{svc: svc}

	with := func(mw []gin.HandlerFunc, fn gin.HandlerFunc) []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(mw)+1)
		return append(append(out, mw...), fn)
	}

	g.GET("", with(read, h.list)...)
	g.POST("", with(write, h.create)...)
	g.GET("/:id", with(read, h.get)...)
	g.PUT("/:id", with(write, h.update)...)
	g.DELETE("/:id", with(write, h.delete)...)
	g.GET("/:id/checkpoint", with(read, h.listCheckpoints)...)
	g.POST("/:id/checkpoint", with(write, h.createCheckpoint)...)
}
