package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/transit-watch/api-go/controllers"
)

func SetupReportRoutes(protected *gin.RouterGroup, reportController *controllers.ReportController, interactionController *controllers.InteractionController) {
	reports := protected.Group("/reports")
	{
		reports.POST("", reportController.SubmitReport)
		reports.POST("/:id/vote", interactionController.VoteReport)
	}
}
