package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/ideabank-api/internal/models"
)

func TestProgressRepositoryListOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	student := models.User{Name: "Ada", Email: "ada@example.com", Role: "student"}
	require.NoError(t, db.Create(&student).Error)
	idea := models.Idea{Title: "Solar kiosk", OwnerID: student.ID, Status: models.IdeaStatusApproved}
	require.NoError(t, db.Create(&idea).Error)

	base := time.Now().Add(-time.Hour)
	for i, stage := range []string{"Planning", "Development", "Testing"} {
		record := models.IdeaProgress{
			IdeaID:          idea.ID,
			StudentID:       student.ID,
			CurrentStage:    stage,
			Description:     stage + " notes",
			Status:          models.ProgressStatusPending,
			ProgressPercent: (i + 1) * 20,
			UpdatedAt:       base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, &record))
	}

	records, err := repo.List(ctx, ProgressFilter{WithIdea: true, WithStudent: true})
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "Testing", records[0].CurrentStage)
	require.Equal(t, "Planning", records[2].CurrentStage)
	for i := 1; i < len(records); i++ {
		require.False(t, records[i].UpdatedAt.After(records[i-1].UpdatedAt))
	}
	require.NotNil(t, records[0].Idea)
	require.Equal(t, "Solar kiosk", records[0].Idea.Title)
	require.NotNil(t, records[0].Student)
	require.Equal(t, "Ada", records[0].Student.Name)
}

func TestProgressRepositoryFiltersByStatusAndStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	pending := models.IdeaProgress{IdeaID: 1, StudentID: 10, CurrentStage: "Planning", Description: "a", Status: models.ProgressStatusPending, ProgressPercent: 10, UpdatedAt: time.Now()}
	reviewed := models.IdeaProgress{IdeaID: 1, StudentID: 11, CurrentStage: "Testing", Description: "b", Status: models.ProgressStatusReviewed, ProgressPercent: 90, UpdatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &pending))
	require.NoError(t, repo.Create(ctx, &reviewed))

	status := models.ProgressStatusPending
	records, err := repo.List(ctx, ProgressFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, pending.ID, records[0].ID)
	require.Nil(t, records[0].Idea)

	studentID := uint(11)
	records, err = repo.List(ctx, ProgressFilter{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, reviewed.ID, records[0].ID)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[models.ProgressStatusPending])
	require.Equal(t, int64(1), counts[models.ProgressStatusReviewed])
}

func TestProgressRepositoryUpdateReviewKeepsUpdatedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	stamp := time.Now().Add(-48 * time.Hour).UTC().Truncate(time.Second)
	record := models.IdeaProgress{IdeaID: 1, StudentID: 2, CurrentStage: "Development", Description: "wiring", Status: models.ProgressStatusPending, ProgressPercent: 40, UpdatedAt: stamp}
	require.NoError(t, repo.Create(ctx, &record))

	record.MentorRemark = "add tests"
	record.Status = models.ProgressStatusNeedsImprovement
	require.NoError(t, repo.UpdateReview(ctx, &record))

	stored, err := repo.GetByID(ctx, record.ID, false)
	require.NoError(t, err)
	require.Equal(t, models.ProgressStatusNeedsImprovement, stored.Status)
	require.Equal(t, "add tests", stored.MentorRemark)
	require.WithinDuration(t, stamp, stored.UpdatedAt, time.Second)

	missing := models.IdeaProgress{ID: 9999}
	require.ErrorIs(t, repo.UpdateReview(ctx, &missing), gorm.ErrRecordNotFound)
}

func TestNotificationRepositoryMarkReadScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	notification := models.Notification{UserID: 5, Type: models.NotificationTypeProgressReviewed, Message: "reviewed"}
	require.NoError(t, repo.Create(ctx, &notification))

	_, err := repo.MarkRead(ctx, notification.ID, 6)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	updated, err := repo.MarkRead(ctx, notification.ID, 5)
	require.NoError(t, err)
	require.True(t, updated.Read)

	unread, err := repo.ListByUser(ctx, 5, true, 0, 0)
	require.NoError(t, err)
	require.Empty(t, unread)

	all, err := repo.ListByUser(ctx, 5, false, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestActivityLogRepositoryFiltersByEntity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	first, second := uint(1), uint(2)
	require.NoError(t, repo.Create(ctx, &models.ActivityLog{ActorID: 3, ActorRole: "student", Action: models.ActivityProgressSubmitted, EntityType: "progress", EntityID: &first}))
	require.NoError(t, repo.Create(ctx, &models.ActivityLog{ActorID: 4, ActorRole: "mentor", Action: models.ActivityProgressReviewed, EntityType: "progress", EntityID: &first}))
	require.NoError(t, repo.Create(ctx, &models.ActivityLog{ActorID: 3, ActorRole: "student", Action: models.ActivityProgressSubmitted, EntityType: "progress", EntityID: &second}))

	entries, total, err := repo.List(ctx, ActivityLogFilter{EntityID: &first, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, entries, 2)

	entries, total, err = repo.List(ctx, ActivityLogFilter{Action: models.ActivityProgressSubmitted, PageSize: 1, Page: 2})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, entries, 1)
}

func TestIdeaRepositoryCountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIdeaRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Idea{Title: "A", OwnerID: 1, Status: models.IdeaStatusApproved}).Error)
	require.NoError(t, db.Create(&models.Idea{Title: "B", OwnerID: 1, Status: models.IdeaStatusApproved}).Error)
	require.NoError(t, db.Create(&models.Idea{Title: "C", OwnerID: 2, Status: models.IdeaStatusRejected}).Error)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[models.IdeaStatusApproved])
	require.Equal(t, int64(1), counts[models.IdeaStatusRejected])
	require.Zero(t, counts[models.IdeaStatusPending])

	_, err = repo.GetByID(ctx, 999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Idea{}, &models.IdeaProgress{}, &models.Notification{}, &models.ActivityLog{}))
	return db
}

func TestProgressRepositoryCountStale(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, record := range []models.IdeaProgress{
		{IdeaID: 1, StudentID: 1, CurrentStage: "Planning", Description: "old", Status: models.ProgressStatusPending, UpdatedAt: now.Add(-48 * time.Hour)},
		{IdeaID: 1, StudentID: 1, CurrentStage: "Planning", Description: "fresh", Status: models.ProgressStatusPending, UpdatedAt: now.Add(-time.Hour)},
		{IdeaID: 1, StudentID: 1, CurrentStage: "Planning", Description: "done", Status: models.ProgressStatusReviewed, UpdatedAt: now.Add(-72 * time.Hour)},
	} {
		record := record
		require.NoError(t, repo.Create(ctx, &record))
	}

	stale, err := repo.CountStale(ctx, models.ProgressStatusPending, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), stale)
}

func TestUserRepositoryListByRole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	for _, user := range []models.User{
		{Name: "Maya", Email: "maya@example.com", Role: "mentor"},
		{Name: "Ayu", Email: "ayu@example.com", Role: "student"},
		{Name: "Rudi", Email: "rudi@example.com", Role: "mentor"},
	} {
		user := user
		require.NoError(t, db.Create(&user).Error)
	}

	mentors, err := repo.ListByRole(context.Background(), "mentor")
	require.NoError(t, err)
	require.Len(t, mentors, 2)
	require.Equal(t, "Maya", mentors[0].Name)
	require.Equal(t, "Rudi", mentors[1].Name)
}
