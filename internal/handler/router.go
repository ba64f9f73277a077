package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// NewRouter регистрирует маршруты сайта.
func NewRouter(h *Handler, compress bool, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))
	if compress {
		router.Use(Compress())
	}

	// Health-check endpoint
	router.GET("/health", h.Health)

	site := router.Group("/", h.WithSession)
	{
		site.GET("/", h.Show)
		site.POST("/navigate", h.Navigate)
		site.POST("/menu", h.ToggleMenu)
		site.POST("/booking", h.SubmitBooking)
		site.GET("/confirmation", h.Confirmation)
	}
	return router
}
