package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sudhr-gitthub/community-driven-issues-tracker/controllers"
	"github.com/sudhr-gitthub/community-driven-issues-tracker/middlewares"
)

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, issueLimit int) {
	issues := r.Group("/api/issues")
	{
		issues.POST("", middlewares.OptionalAuth(), middlewares.IssueRateLimiter(issueLimit), ic.CreateIssue)
		issues.GET("", ic.GetAllIssues)
		issues.GET("/:id", ic.GetIssue)
		issues.PATCH("/:id/status", middlewares.AuthMiddleware(), ic.UpdateIssueStatus)
		issues.PUT("/:id", middlewares.AuthMiddleware(), ic.UpdateIssue)
		issues.DELETE("/:id", middlewares.AuthMiddleware(), ic.DeleteIssue)
	}

	r.GET("/api/users/:userId/issues", ic.GetIssuesByUser)
}
