package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/transit-watch/api-go/models"
	"github.com/transit-watch/api-go/services"
	"github.com/transit-watch/api-go/utils"
	"gorm.io/gorm"
)

// Cache keys and freshness windows for the read endpoints. Staleness of a
// minute or two is acceptable for map display.
const (
	cacheKeyRecent     = "reports:recent"
	cacheKeyCountToday = "reports:count:today"
	cacheKeyCountTotal = "reports:count:total"

	recentCacheTTL     = 60 * time.Second
	countTodayCacheTTL = 5 * time.Minute
	countTotalCacheTTL = time.Minute
)

type ReportController struct {
	DB      *gorm.DB
	Reports services.ReportService
	Cache   *utils.Cache
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{
		DB:      db,
		Reports: services.NewReportService(db),
		Cache:   utils.GetCache(),
	}
}

type reportWithWeight struct {
	models.Report
	Weight float64 `json:"weight"`
}

// SubmitReport records a sighting at the given location. A submission
// close to an active report by someone else merges into it instead of
// creating a duplicate.
func (rc *ReportController) SubmitReport(c *gin.Context) {
	claims := utils.GetUser(c)

	var input struct {
		Latitude    *float64 `json:"latitude" binding:"required"`
		Longitude   *float64 `json:"longitude" binding:"required"`
		Description string   `json:"description"`
		Modes       []string `json:"modes"`
		PhotoURL    string   `json:"photo_url"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := rc.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	report, merged, err := rc.Reports.SubmitSighting(c.Request.Context(), &user, *input.Latitude, *input.Longitude, input.Description, input.Modes, input.PhotoURL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLocation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDuplicateTooClose):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report"})
		}
		return
	}

	// Drop cached reads so the reporter sees their submission.
	rc.Cache.Delete(cacheKeyRecent)
	rc.Cache.Delete(cacheKeyCountToday)
	rc.Cache.Delete(cacheKeyCountTotal)

	message := "Report created"
	if merged {
		message = "Report confirmed an existing sighting"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"merged":  merged,
		"report":  report,
		"message": message,
	})
}

// GetRecentReports returns reports from the active window with their
// display weight, served through a 60 second cache.
func (rc *ReportController) GetRecentReports(c *gin.Context) {
	if cached := rc.Cache.Get(cacheKeyRecent); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	reports, err := rc.Reports.RecentReports(c.Request.Context(), 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent reports"})
		return
	}

	now := time.Now()
	weighted := make([]reportWithWeight, 0, len(reports))
	for i := range reports {
		weighted = append(weighted, reportWithWeight{
			Report: reports[i],
			Weight: services.ReportWeight(&reports[i], now),
		})
	}

	rc.Cache.Set(cacheKeyRecent, weighted, recentCacheTTL)
	c.JSON(http.StatusOK, weighted)
}

// GetTodayCount returns the last-24h report count and its danger level,
// served through a 5 minute cache.
func (rc *ReportController) GetTodayCount(c *gin.Context) {
	if cached := rc.Cache.Get(cacheKeyCountToday); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	count, err := rc.Reports.ReportCount(c.Request.Context(), 24, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch today's report count"})
		return
	}

	payload := gin.H{
		"count":        count,
		"danger_level": services.DangerLevel(int(count)),
	}

	rc.Cache.Set(cacheKeyCountToday, payload, countTodayCacheTTL)
	c.JSON(http.StatusOK, payload)
}

// GetTotalCount returns the all-time report count, served through a
// 1 minute cache.
func (rc *ReportController) GetTotalCount(c *gin.Context) {
	if cached := rc.Cache.Get(cacheKeyCountTotal); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	count, err := rc.Reports.ReportCount(c.Request.Context(), 0, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch total report count"})
		return
	}

	payload := gin.H{"count": count}

	rc.Cache.Set(cacheKeyCountTotal, payload, countTotalCacheTTL)
	c.JSON(http.StatusOK, payload)
}

// GetMyReportCount returns the caller's own report count, optionally
// limited to a rolling window via ?hours=.
func (rc *ReportController) GetMyReportCount(c *gin.Context) {
	claims := utils.GetUser(c)

	hours := 0
	if h := c.Query("hours"); h != "" {
		parsed, err := strconv.Atoi(h)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a non-negative integer"})
			return
		}
		hours = parsed
	}

	count, err := rc.Reports.ReportCount(c.Request.Context(), hours, claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
