package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/transit-watch/api-go/services"
	"github.com/transit-watch/api-go/utils"
	"gorm.io/gorm"
)

type InteractionController struct {
	DB    *gorm.DB
	Votes services.VoteService
}

func NewInteractionController(db *gorm.DB) *InteractionController {
	return &InteractionController{
		DB:    db,
		Votes: services.NewVoteService(db),
	}
}

// VoteReport casts an upvote or downvote on a report. Repeating the same
// direction toggles the vote off.
func (ic *InteractionController) VoteReport(c *gin.Context) {
	claims := utils.GetUser(c)

	reportID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	var input struct {
		Upvote *bool `json:"upvote" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = ic.Votes.CastVote(c.Request.Context(), uint(reportID), claims.UserID, *input.Upvote)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSelfVote):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
