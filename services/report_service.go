package services

import (
	"context"
	"math"
	"time"

	"github.com/transit-watch/api-go/models"
	"gorm.io/gorm"
)

const (
	// DedupThresholdDegrees is the axis-aligned coordinate box used to
	// decide two sightings refer to the same event. 0.0005 degrees is
	// roughly 50 meters at Melbourne's latitude. Comparison is strict:
	// a report exactly on the boundary is a new sighting.
	DedupThresholdDegrees = 0.0005

	// RecentReportHours is the rolling window a report stays active for.
	// Expiry is a read-side filter, reports are never deleted.
	RecentReportHours = 8

	// MaxDescriptionLength caps free-text notes before storage.
	MaxDescriptionLength = 100
)

// ReportService defines business operations around inspector sightings:
// submitting (with dedup against recent reports), listing and counting.
type ReportService interface {
	// SubmitSighting records a sighting for the given user. If an active
	// report by another user sits within the dedup box, that report is
	// refreshed and implicitly upvoted instead of creating a duplicate;
	// the returned bool is true when the sighting merged into an
	// existing report.
	SubmitSighting(ctx context.Context, user *models.User, lat, lng float64, description string, modes []string, photoURL string) (*models.Report, bool, error)

	// RecentReports returns reports created within the last `hours`
	// hours, newest first. hours <= 0 falls back to RecentReportHours.
	RecentReports(ctx context.Context, hours int) ([]models.Report, error)

	// ReportCount counts reports in the last `hours` hours (all time if
	// hours <= 0), optionally filtered to a single reporter.
	ReportCount(ctx context.Context, hours int, userID uint) (int64, error)
}

type reportService struct {
	db *gorm.DB
}

// NewReportService injects the *gorm.DB dependency and returns a
// ReportService instance ready for use.
func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) SubmitSighting(ctx context.Context, user *models.User, lat, lng float64, description string, modes []string, photoURL string) (*models.Report, bool, error) {
	if !validLocation(lat, lng) {
		return nil, false, ErrInvalidLocation
	}

	description = truncateDescription(description)

	var (
		report models.Report
		merged bool
	)

	// The read-match-write sequence runs in one transaction so two
	// concurrent submissions near the same location cannot both miss each
	// other and insert duplicate rows.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cutoff := time.Now().Add(-RecentReportHours * time.Hour)

		var recent []models.Report
		if err := tx.Where("created_at >= ?", cutoff).Find(&recent).Error; err != nil {
			return err
		}

		match := nearestSimilarReport(recent, lat, lng)
		if match == nil {
			report = models.Report{
				UserID:      user.ID,
				UserName:    user.Name,
				Latitude:    lat,
				Longitude:   lng,
				Description: description,
				Modes:       modes,
				PhotoURL:    photoURL,
				VoteCount:   1,
			}
			if err := tx.Create(&report).Error; err != nil {
				return err
			}

			return tx.Create(&models.ActivityLog{
				UserID:    user.ID,
				ReportID:  report.ID,
				Activity:  "report_created",
				Latitude:  lat,
				Longitude: lng,
			}).Error
		}

		// Re-observing your own active report must not reinforce it.
		if match.UserID == user.ID {
			return ErrDuplicateTooClose
		}

		// Someone else saw the same inspector: treat the re-observation
		// as an implicit upvote and bring the report back to the top of
		// the recency window.
		merged = true
		updates := map[string]interface{}{
			"created_at": time.Now(),
			"vote_count": gorm.Expr("vote_count + ?", 1),
		}
		if err := tx.Model(&models.Report{}).Where("id = ?", match.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.ActivityLog{
			UserID:    user.ID,
			ReportID:  match.ID,
			Activity:  "report_merged",
			Latitude:  lat,
			Longitude: lng,
		}).Error; err != nil {
			return err
		}

		return tx.First(&report, match.ID).Error
	})
	if err != nil {
		return nil, false, err
	}

	return &report, merged, nil
}

func (s *reportService) RecentReports(ctx context.Context, hours int) ([]models.Report, error) {
	if hours <= 0 {
		hours = RecentReportHours
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)

	var reports []models.Report
	err := s.db.WithContext(ctx).
		Where("created_at >= ?", cutoff).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	return reports, nil
}

func (s *reportService) ReportCount(ctx context.Context, hours int, userID uint) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Report{})

	if hours > 0 {
		cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
		query = query.Where("created_at >= ?", cutoff)
	}
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// nearestSimilarReport returns the candidate closest to (lat, lng) among
// those whose latitude and longitude deltas are both strictly inside the
// dedup box, or nil when none qualify. Picking the nearest (instead of
// the first in list order) makes the merge target deterministic when
// several candidates overlap.
func nearestSimilarReport(reports []models.Report, lat, lng float64) *models.Report {
	var (
		nearest *models.Report
		best    float64
	)

	for i := range reports {
		latDiff := math.Abs(reports[i].Latitude - lat)
		lngDiff := math.Abs(reports[i].Longitude - lng)

		if latDiff >= DedupThresholdDegrees || lngDiff >= DedupThresholdDegrees {
			continue
		}

		dist := latDiff*latDiff + lngDiff*lngDiff
		if nearest == nil || dist < best {
			nearest = &reports[i]
			best = dist
		}
	}

	return nearest
}

func validLocation(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func truncateDescription(description string) string {
	runes := []rune(description)
	if len(runes) <= MaxDescriptionLength {
		return description
	}

	return string(runes[:MaxDescriptionLength])
}
