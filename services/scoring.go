package services

import (
	"time"

	"github.com/transit-watch/api-go/models"
)

// Report count thresholds for the danger level shown on the dashboard.
const (
	LowReports    = 5
	MediumReports = 15
	HighReports   = 30
)

// ReportWeight returns the heatmap weight for a report: net votes plus one,
// divided by hours since the sighting plus one. Fresh, well-confirmed
// reports weigh the most and the weight decays as the report ages. Display
// only, never used for persistence decisions.
func ReportWeight(report *models.Report, now time.Time) float64 {
	hoursAgo := now.Sub(report.CreatedAt).Hours()
	if hoursAgo < 0 {
		hoursAgo = 0
	}

	return (float64(report.VoteCount) + 1) / (hoursAgo + 1)
}

// DangerLevel buckets the number of reports in the last 24 hours into an
// ordinal label. Bucket upper bounds are inclusive.
func DangerLevel(reportCount int) string {
	switch {
	case reportCount <= LowReports:
		return "Low"
	case reportCount <= MediumReports:
		return "Medium"
	case reportCount <= HighReports:
		return "High"
	default:
		return "Very High"
	}
}
