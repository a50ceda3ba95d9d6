package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
	"github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

func newTestStore(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	dsn := fmt.Sprintf("file:repodb_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&types.User{}, &types.Habit{}, &types.HabitLog{}, &types.UserAchievement{}, &types.Achievement{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return gdb, log
}

func seedUserAndHabit(t *testing.T, gdb *gorm.DB, log *logger.Logger) (*types.User, *types.Habit) {
	t.Helper()
	ctx := context.Background()
	user := &types.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Password: "x", FirstName: "T", Level: 1}
	if _, err := NewUserRepo(gdb, log).Create(ctx, nil, []*types.User{user}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	habit := &types.Habit{ID: uuid.New(), UserID: user.ID, Name: "read", Type: types.HabitTypeBuild, Difficulty: 1, IsActive: true}
	if _, err := NewHabitRepo(gdb, log).Create(ctx, nil, []*types.Habit{habit}); err != nil {
		t.Fatalf("failed to create habit: %v", err)
	}
	return user, habit
}

func TestHabitLogUpsert_OneRowPerHabitAndDay(t *testing.T) {
	gdb, log := newTestStore(t)
	ctx := context.Background()
	_, habit := seedUserAndHabit(t, gdb, log)
	repo := NewHabitLogRepo(gdb, log)

	day := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	first := &types.HabitLog{ID: uuid.New(), HabitID: habit.ID, Date: day, Success: true, PointsEarned: 10, StreakDay: 1, LoggedAt: time.Now()}
	if err := repo.Upsert(ctx, nil, first); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	// Same calendar day at a different wall clock hour collides.
	second := &types.HabitLog{ID: uuid.New(), HabitID: habit.ID, Date: day.Add(3 * time.Hour), Success: false, PointsEarned: 0, StreakDay: 0, Notes: "relogged", LoggedAt: time.Now()}
	if err := repo.Upsert(ctx, nil, second); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	var count int64
	if err := gdb.Model(&types.HabitLog{}).Where("habit_id = ?", habit.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row, got %d", count)
	}

	stored, err := repo.GetByHabitAndDate(ctx, nil, habit.ID, day)
	if err != nil {
		t.Fatalf("GetByHabitAndDate: %v", err)
	}
	if stored == nil || stored.Success || stored.Notes != "relogged" {
		t.Fatalf("expected the overwrite to win, got %+v", stored)
	}
	if stored.ID != first.ID {
		t.Fatalf("expected the original row id to survive, got %s", stored.ID)
	}
}

func TestHabitLogGetByHabitAndDate_MissingIsNilNotError(t *testing.T) {
	gdb, log := newTestStore(t)
	_, habit := seedUserAndHabit(t, gdb, log)
	repo := NewHabitLogRepo(gdb, log)

	stored, err := repo.GetByHabitAndDate(context.Background(), nil, habit.ID, time.Now())
	if err != nil {
		t.Fatalf("GetByHabitAndDate: %v", err)
	}
	if stored != nil {
		t.Fatalf("expected nil for a missing day, got %+v", stored)
	}
}

func TestUserAchievementCreate_DuplicateIsASilentNoOp(t *testing.T) {
	gdb, log := newTestStore(t)
	ctx := context.Background()
	user, _ := seedUserAndHabit(t, gdb, log)

	achievement := &types.Achievement{ID: uuid.New(), Name: "First Steps", ConditionType: types.ConditionHabitLogs, ConditionValue: 1}
	if _, err := NewAchievementRepo(gdb, log).Create(ctx, nil, []*types.Achievement{achievement}); err != nil {
		t.Fatalf("failed to create achievement: %v", err)
	}

	repo := NewUserAchievementRepo(gdb, log)
	award := &types.UserAchievement{ID: uuid.New(), UserID: user.ID, AchievementID: achievement.ID, EarnedAt: time.Now()}
	created, err := repo.Create(ctx, nil, award)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if !created {
		t.Fatalf("expected the first insert to create the row")
	}

	dup := &types.UserAchievement{ID: uuid.New(), UserID: user.ID, AchievementID: achievement.ID, EarnedAt: time.Now()}
	created, err = repo.Create(ctx, nil, dup)
	if err != nil {
		t.Fatalf("duplicate Create: %v", err)
	}
	if created {
		t.Fatalf("expected the duplicate insert to be a no-op")
	}

	var count int64
	if err := gdb.Model(&types.UserAchievement{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one award row, got %d", count)
	}
}

func TestUserRepoIncrementPoints_AccumulatesDeltas(t *testing.T) {
	gdb, log := newTestStore(t)
	ctx := context.Background()
	user, _ := seedUserAndHabit(t, gdb, log)
	repo := NewUserRepo(gdb, log)

	// Two relative writes issued without re-reading in between must both
	// land; an absolute write from a stale read would lose the first.
	if err := repo.IncrementPoints(ctx, nil, user.ID, 10); err != nil {
		t.Fatalf("first IncrementPoints: %v", err)
	}
	if err := repo.IncrementPoints(ctx, nil, user.ID, 60); err != nil {
		t.Fatalf("second IncrementPoints: %v", err)
	}

	users, err := repo.GetByIDs(ctx, nil, []uuid.UUID{user.ID})
	if err != nil || len(users) != 1 {
		t.Fatalf("failed to fetch user: %v", err)
	}
	if users[0].TotalPoints != 70 {
		t.Fatalf("expected both increments to land, got %d", users[0].TotalPoints)
	}
}
