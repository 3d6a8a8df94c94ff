package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/transit-watch/api-go/controllers"
)

func SetupSubscriptionRoutes(protected *gin.RouterGroup, subscriptionController *controllers.SubscriptionController) {
	subscriptions := protected.Group("/subscriptions")
	{
		subscriptions.POST("", subscriptionController.Subscribe)
		subscriptions.DELETE("/:deviceId", subscriptionController.Unsubscribe)
	}
}
