package services

import "errors"

var (
	// ErrInvalidLocation means the submitted coordinates were not finite
	// numbers or fell outside valid latitude/longitude ranges.
	ErrInvalidLocation = errors.New("location must be valid coordinates")

	// ErrDuplicateTooClose means the reporter already has an active report
	// within the dedup box; re-observing your own report is a no-op.
	ErrDuplicateTooClose = errors.New("report is too close to one of your existing reports")

	// ErrReportNotFound means the referenced report does not exist.
	ErrReportNotFound = errors.New("report not found")

	// ErrSelfVote means a user tried to vote on their own report.
	ErrSelfVote = errors.New("you cannot vote on your own report")
)
