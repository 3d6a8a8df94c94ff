package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/transit-watch/api-go/models"
	"github.com/transit-watch/api-go/services"
	"github.com/transit-watch/api-go/utils"
	"gorm.io/gorm"
)

type SubscriptionController struct {
	DB            *gorm.DB
	Subscriptions services.SubscriptionService
}

func NewSubscriptionController(db *gorm.DB) *SubscriptionController {
	return &SubscriptionController{
		DB:            db,
		Subscriptions: services.NewSubscriptionService(db),
	}
}

// Subscribe registers a device for push notifications. The device id is
// client-generated and stable; omitting it gets a fresh one assigned.
func (sc *SubscriptionController) Subscribe(c *gin.Context) {
	claims := utils.GetUser(c)

	var input struct {
		DeviceID string `json:"device_id"`
		Endpoint string `json:"endpoint" binding:"required"`
		Keys     struct {
			Auth   string `json:"auth" binding:"required"`
			P256dh string `json:"p256dh" binding:"required"`
		} `json:"keys" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.DeviceID == "" {
		input.DeviceID = uuid.New().String()
	}

	sub := &models.Subscription{
		DeviceID:  input.DeviceID,
		UserID:    claims.UserID,
		Endpoint:  input.Endpoint,
		AuthKey:   input.Keys.Auth,
		P256dhKey: input.Keys.P256dh,
	}

	if err := sc.Subscriptions.SubscribeDevice(c.Request.Context(), sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "device_id": input.DeviceID})
}

// Unsubscribe removes a device's push registration.
func (sc *SubscriptionController) Unsubscribe(c *gin.Context) {
	claims := utils.GetUser(c)
	deviceID := c.Param("deviceId")

	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Device id is required"})
		return
	}

	if err := sc.Subscriptions.UnsubscribeDevice(c.Request.Context(), deviceID, claims.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
