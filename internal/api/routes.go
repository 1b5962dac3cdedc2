package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handlers) {
	r.GET("/health", h.health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/generate-base-image", h.generateBaseImage)
		v1.POST("/map-artwork", h.mapArtwork)
		v1.POST("/map-artwork/render", h.renderUpload)
		v1.GET("/mockups/:id", h.getMockup)
		v1.GET("/mockups/:id/qr", h.mockupQR)
	}
}
