package services

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/transit-watch/api-go/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database and migrates every model
// the services touch.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("could not open test DB: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Report{}, &models.Vote{}, &models.ActivityLog{}, &models.Subscription{}); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{Name: name, Email: name + "@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %q: %v", name, err)
	}

	return &user
}

func TestSubmitSighting_CreatesFreshReport(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "alice")
	svc := NewReportService(db)

	before := time.Now()
	report, merged, err := svc.SubmitSighting(context.Background(), user, -37.8136, 144.9631, "flinders st platform 3", []string{"train"}, "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if merged {
		t.Fatal("expected a fresh report, got a merge")
	}

	if report.Latitude != -37.8136 || report.Longitude != 144.9631 {
		t.Errorf("location mismatch: got (%v, %v)", report.Latitude, report.Longitude)
	}
	if report.VoteCount != 1 {
		t.Errorf("new report should start with vote_count 1, got %d", report.VoteCount)
	}
	if report.UserName != "alice" {
		t.Errorf("reporter name snapshot missing, got %q", report.UserName)
	}
	if report.CreatedAt.Before(before.Add(-time.Second)) {
		t.Errorf("created_at should be roughly now, got %v", report.CreatedAt)
	}

	var count int64
	db.Model(&models.Report{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 report row, got %d", count)
	}
}

func TestSubmitSighting_MergesNearbyReport(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewReportService(db)

	t0 := time.Now().Add(-time.Hour)
	existing := models.Report{
		UserID:    alice.ID,
		UserName:  alice.Name,
		Latitude:  -37.8136,
		Longitude: 144.9631,
		VoteCount: 3,
		CreatedAt: t0,
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}

	// 0.00002 degrees away in both axes, well inside the dedup box.
	report, merged, err := svc.SubmitSighting(context.Background(), bob, -37.81362, 144.96312, "", nil, "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !merged {
		t.Fatal("expected submission to merge into the existing report")
	}

	if report.ID != existing.ID {
		t.Errorf("merge should reuse the existing row, got id %d want %d", report.ID, existing.ID)
	}
	if report.VoteCount != 4 {
		t.Errorf("merge should implicitly upvote: got vote_count %d, want 4", report.VoteCount)
	}
	if !report.CreatedAt.After(t0) {
		t.Errorf("merge should refresh created_at: got %v, want after %v", report.CreatedAt, t0)
	}

	var count int64
	db.Model(&models.Report{}).Count(&count)
	if count != 1 {
		t.Errorf("merge must not create a second row, got %d rows", count)
	}
}

func TestSubmitSighting_BoundaryIsNotAMatch(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewReportService(db)

	if err := db.Create(&models.Report{
		UserID:    alice.ID,
		Latitude:  -37.8136,
		Longitude: 144.9631,
		VoteCount: 1,
		CreatedAt: time.Now(),
	}).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}

	// Exactly the threshold away in latitude. Strict less-than means this
	// is a distinct sighting.
	_, merged, err := svc.SubmitSighting(context.Background(), bob, -37.8136+DedupThresholdDegrees, 144.9631, "", nil, "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if merged {
		t.Fatal("a report exactly on the threshold must not merge")
	}

	var count int64
	db.Model(&models.Report{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 report rows, got %d", count)
	}
}

func TestSubmitSighting_OwnReportTooClose(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	svc := NewReportService(db)

	if err := db.Create(&models.Report{
		UserID:    alice.ID,
		Latitude:  -37.8136,
		Longitude: 144.9631,
		VoteCount: 2,
		CreatedAt: time.Now(),
	}).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}

	_, _, err := svc.SubmitSighting(context.Background(), alice, -37.81361, 144.96311, "", nil, "")
	if err != ErrDuplicateTooClose {
		t.Fatalf("expected ErrDuplicateTooClose, got: %v", err)
	}

	// No self-reinforcement: vote count must be untouched.
	var saved models.Report
	if err := db.First(&saved).Error; err != nil {
		t.Fatalf("failed to reload report: %v", err)
	}
	if saved.VoteCount != 2 {
		t.Errorf("own re-observation must not change vote_count, got %d", saved.VoteCount)
	}
}

func TestSubmitSighting_PicksNearestCandidate(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	svc := NewReportService(db)

	far := models.Report{UserID: alice.ID, Latitude: -37.81340, Longitude: 144.96310, VoteCount: 1, CreatedAt: time.Now()}
	near := models.Report{UserID: alice.ID, Latitude: -37.81310, Longitude: 144.96310, VoteCount: 1, CreatedAt: time.Now()}
	if err := db.Create(&far).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	if err := db.Create(&near).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}

	report, merged, err := svc.SubmitSighting(context.Background(), bob, -37.81305, 144.96310, "", nil, "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !merged {
		t.Fatal("expected a merge")
	}
	if report.ID != near.ID {
		t.Errorf("merge should pick the nearest candidate: got id %d, want %d", report.ID, near.ID)
	}
}

func TestSubmitSighting_RejectsInvalidLocation(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "alice")
	svc := NewReportService(db)

	cases := []struct {
		name     string
		lat, lng float64
	}{
		{"nan latitude", math.NaN(), 144.9631},
		{"inf longitude", -37.8136, math.Inf(1)},
		{"latitude out of range", 91, 144.9631},
		{"longitude out of range", -37.8136, 181},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.SubmitSighting(context.Background(), user, tc.lat, tc.lng, "", nil, "")
			if err != ErrInvalidLocation {
				t.Fatalf("expected ErrInvalidLocation, got: %v", err)
			}
		})
	}
}

func TestSubmitSighting_TruncatesDescription(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "alice")
	svc := NewReportService(db)

	long := strings.Repeat("x", MaxDescriptionLength+40)
	report, _, err := svc.SubmitSighting(context.Background(), user, -37.8136, 144.9631, long, nil, "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(report.Description) != MaxDescriptionLength {
		t.Errorf("description should be capped at %d chars, got %d", MaxDescriptionLength, len(report.Description))
	}
}

func TestReportCount_WindowFilter(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "alice")
	svc := NewReportService(db)

	ages := []time.Duration{time.Hour, 10 * time.Hour, 30 * time.Hour}
	for _, age := range ages {
		if err := db.Create(&models.Report{
			UserID:    user.ID,
			Latitude:  -37.8136,
			Longitude: 144.9631,
			CreatedAt: time.Now().Add(-age),
		}).Error; err != nil {
			t.Fatalf("failed to seed report: %v", err)
		}
	}

	count, err := svc.ReportCount(context.Background(), 24, 0)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if count != 2 {
		t.Errorf("24h window should count 2 reports, got %d", count)
	}

	total, err := svc.ReportCount(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if total != 3 {
		t.Errorf("all-time count should be 3, got %d", total)
	}
}

func TestRecentReports_WindowAndOrder(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "alice")
	svc := NewReportService(db)

	old := models.Report{UserID: user.ID, Latitude: -37.80, Longitude: 144.90, CreatedAt: time.Now().Add(-9 * time.Hour)}
	mid := models.Report{UserID: user.ID, Latitude: -37.81, Longitude: 144.91, CreatedAt: time.Now().Add(-2 * time.Hour)}
	fresh := models.Report{UserID: user.ID, Latitude: -37.82, Longitude: 144.92, CreatedAt: time.Now().Add(-10 * time.Minute)}
	for _, r := range []*models.Report{&old, &mid, &fresh} {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("failed to seed report: %v", err)
		}
	}

	reports, err := svc.RecentReports(context.Background(), 0)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("8h window should return 2 reports, got %d", len(reports))
	}
	if reports[0].ID != fresh.ID || reports[1].ID != mid.ID {
		t.Errorf("reports should be newest first: got ids %d, %d", reports[0].ID, reports[1].ID)
	}
}
