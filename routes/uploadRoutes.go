package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/controllers"
)

// UploadRoutes sets up the evidence upload route
func UploadRoutes(r *gin.Engine, uc *controllers.UploadController) {
	r.POST("/api/upload", uc.UploadEvidence)
}
