package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. Video routes sit behind TokenRequired.
func NewRouter(h *Handler, requestTimeout time.Duration) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(h.log), Timeout(requestTimeout))

	r.GET("/healthz", h.Healthz)
	r.POST("/register", h.Register)
	r.GET("/login", h.Login)
	r.POST("/login", h.Login)

	videos := r.Group("/", h.TokenRequired())
	videos.GET("/videos", h.ListVideos)
	videos.GET("/video/:id", h.GetVideo)
	videos.POST("/video/:id", h.CreateVideo)
	videos.PUT("/video/:id", h.ReplaceVideo)
	videos.PATCH("/video/:id", h.PatchVideo)
	videos.DELETE("/video/:id", h.DeleteVideo)

	return r
}
