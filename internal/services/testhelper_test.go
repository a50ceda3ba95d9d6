package services

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
	"github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/repos"
	"github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

// testEnv wires the full service stack over an in-memory store, the same way
// cmd/main.go does over Postgres.
type testEnv struct {
	db           *gorm.DB
	userRepo     repos.UserRepo
	habitRepo    repos.HabitRepo
	logRepo      repos.HabitLogRepo
	statsRepo    repos.UserStatsRepo
	achRepo      repos.AchievementRepo
	awardRepo    repos.UserAchievementRepo
	chRepo       repos.ChallengeRepo
	streaks      StreakService
	habits       HabitService
	achievements AchievementService
	challenges   ChallengeService
	progress     ProgressService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Habit{},
		&types.HabitLog{},
		&types.UserStats{},
		&types.Achievement{},
		&types.UserAchievement{},
		&types.Challenge{},
		&types.ChallengeParticipant{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	env := &testEnv{
		db:        gdb,
		userRepo:  repos.NewUserRepo(gdb, log),
		habitRepo: repos.NewHabitRepo(gdb, log),
		logRepo:   repos.NewHabitLogRepo(gdb, log),
		statsRepo: repos.NewUserStatsRepo(gdb, log),
		achRepo:   repos.NewAchievementRepo(gdb, log),
		awardRepo: repos.NewUserAchievementRepo(gdb, log),
		chRepo:    repos.NewChallengeRepo(gdb, log),
	}
	env.streaks = NewStreakService(gdb, log, env.logRepo)
	env.habits = NewHabitService(gdb, log, env.habitRepo, env.logRepo, env.userRepo, env.statsRepo, env.streaks)
	env.achievements = NewAchievementService(gdb, log, env.achRepo, env.awardRepo, env.habitRepo, env.logRepo, env.userRepo, env.streaks)
	env.challenges = NewChallengeService(gdb, log, env.chRepo, env.logRepo, env.userRepo, env.habitRepo)
	env.progress = NewProgressService(gdb, log, env.userRepo, env.habitRepo, env.logRepo, env.awardRepo, env.streaks)
	return env
}

func (env *testEnv) createUser(t *testing.T) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
		Level:     1,
	}
	if _, err := env.userRepo.Create(context.Background(), nil, []*types.User{user}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func (env *testEnv) createHabit(t *testing.T, userID uuid.UUID, name string, difficulty int, category string) *types.Habit {
	t.Helper()
	habit, err := env.habits.CreateHabit(context.Background(), userID, HabitInput{
		Name:       name,
		Category:   category,
		Difficulty: difficulty,
	})
	if err != nil {
		t.Fatalf("failed to create habit %q: %v", name, err)
	}
	return habit
}

// seedLog writes a raw log row, bypassing the completion path, for tests
// that need full control over points, streak snapshots or logged_at.
func (env *testEnv) seedLog(t *testing.T, habitID uuid.UUID, date time.Time, success bool, loggedAt time.Time) {
	t.Helper()
	entry := &types.HabitLog{
		ID:       uuid.New(),
		HabitID:  habitID,
		Date:     types.Midnight(date),
		Success:  success,
		LoggedAt: loggedAt,
	}
	if err := env.logRepo.Upsert(context.Background(), nil, entry); err != nil {
		t.Fatalf("failed to seed log: %v", err)
	}
}

// daysAgo is midnight of the day `offset` days before today (UTC).
func daysAgo(offset int) time.Time {
	return types.Midnight(time.Now()).AddDate(0, 0, -offset)
}
