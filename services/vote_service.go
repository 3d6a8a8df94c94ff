package services

import (
	"context"
	"errors"

	"github.com/transit-watch/api-go/models"
	"gorm.io/gorm"
)

// VoteService applies a user's upvote or downvote to a report. One vote
// row exists per (report, voter) pair; repeating the same direction
// toggles the vote off (soft-disable) and the row is reused when the user
// votes again.
type VoteService interface {
	// CastVote records the vote and applies the matching vote_count
	// delta. Returns ErrReportNotFound for missing reports and
	// ErrSelfVote when the voter owns the report; neither mutates
	// anything.
	CastVote(ctx context.Context, reportID, voterID uint, upvote bool) error
}

type voteService struct {
	db *gorm.DB
}

// NewVoteService injects the *gorm.DB dependency and returns a
// VoteService instance ready for use.
func NewVoteService(db *gorm.DB) VoteService {
	return &voteService{db: db}
}

func (s *voteService) CastVote(ctx context.Context, reportID, voterID uint, upvote bool) error {
	// Vote row mutation and vote_count delta are coupled: both run in one
	// transaction so a failure at either step leaves the invariant
	// "vote_count == sum of active vote directions" intact.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}

		if report.UserID == voterID {
			return ErrSelfVote
		}

		var existing models.Vote
		err := tx.Where("report_id = ? AND user_id = ?", reportID, voterID).First(&existing).Error

		var delta int
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Fresh vote.
			vote := models.Vote{
				ReportID: reportID,
				UserID:   voterID,
				Upvote:   upvote,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			delta = voteDelta(upvote)

		case err != nil:
			return err

		case existing.Disabled:
			// Re-enabling counts as a fresh vote in the requested
			// direction, whatever direction the disabled row held.
			updates := map[string]interface{}{"upvote": upvote, "disabled": false}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			delta = voteDelta(upvote)

		case existing.Upvote == upvote:
			// Same direction again: toggle the vote off.
			if err := tx.Model(&existing).Update("disabled", true).Error; err != nil {
				return err
			}
			delta = -voteDelta(upvote)

		default:
			// Direction change: reverse the prior vote and apply the new
			// one in a single delta.
			updates := map[string]interface{}{"upvote": upvote, "disabled": false}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			delta = 2 * voteDelta(upvote)
		}

		if err := tx.Model(&models.Report{}).Where("id = ?", reportID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + ?", delta)).Error; err != nil {
			return err
		}

		return tx.Create(&models.ActivityLog{
			UserID:   voterID,
			ReportID: reportID,
			Activity: "vote_cast",
		}).Error
	})
}

func voteDelta(upvote bool) int {
	if upvote {
		return 1
	}
	return -1
}
