package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/normalization"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/repos"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type HabitInput struct {
  Name        string `json:"name"`
  Description string `json:"description"`
  Category    string `json:"category"`
  Type        string `json:"type"`
  Difficulty  int    `json:"difficulty"`
}

// CompletionResult is what a log write hands back to the routing layer.
type CompletionResult struct {
  PointsEarned int `json:"points_earned"`
  StreakDay    int `json:"streak_day"`
  TotalPoints  int `json:"total_points"`
  Level        int `json:"level"`
}

type HabitService interface {
  CreateHabit(ctx context.Context, userID uuid.UUID, input HabitInput) (*types.Habit, error)
  ListHabits(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*types.Habit, error)
  GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*types.Habit, error)
  UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, input HabitInput) (*types.Habit, error)
  ArchiveHabit(ctx context.Context, userID, habitID uuid.UUID) error
  // LogCompletion records one outcome for (habit, date) and settles points,
  // level and the stats cache in a single transaction. Re-logging a date
  // overwrites the previous outcome and applies the points difference.
  // Achievement evaluation is NOT triggered here; callers invoke it
  // explicitly afterwards.
  LogCompletion(ctx context.Context, userID, habitID uuid.UUID, date time.Time, success bool, notes string) (*CompletionResult, error)
  ListLogs(ctx context.Context, userID, habitID uuid.UUID, from, to time.Time) ([]*types.HabitLog, error)
  HabitStreak(ctx context.Context, userID, habitID uuid.UUID, asOf time.Time) (int, error)
  UserStreak(ctx context.Context, userID uuid.UUID, asOf time.Time) (int, error)
}

type habitService struct {
  db        *gorm.DB
  log       *logger.Logger
  habitRepo repos.HabitRepo
  logRepo   repos.HabitLogRepo
  userRepo  repos.UserRepo
  statsRepo repos.UserStatsRepo
  streaks   StreakService
}

func NewHabitService(
  db *gorm.DB,
  log *logger.Logger,
  habitRepo repos.HabitRepo,
  logRepo repos.HabitLogRepo,
  userRepo repos.UserRepo,
  statsRepo repos.UserStatsRepo,
  streaks StreakService,
) HabitService {
  return &habitService{
    db:        db,
    log:       log.With("service", "HabitService"),
    habitRepo: habitRepo,
    logRepo:   logRepo,
    userRepo:  userRepo,
    statsRepo: statsRepo,
    streaks:   streaks,
  }
}

func validateHabitInput(input *HabitInput) error {
  input.Name = normalization.TrimInputString(input.Name)
  input.Category = normalization.ParseInputString(input.Category)
  input.Type = normalization.ParseInputString(input.Type)
  if input.Name == "" {
    return validationf("habit name is required")
  }
  if input.Type == "" {
    input.Type = types.HabitTypeBuild
  }
  if input.Type != types.HabitTypeBuild && input.Type != types.HabitTypeBreak {
    return validationf("habit type must be %q or %q", types.HabitTypeBuild, types.HabitTypeBreak)
  }
  if input.Difficulty == 0 {
    input.Difficulty = types.MinDifficulty
  }
  if input.Difficulty < types.MinDifficulty || input.Difficulty > types.MaxDifficulty {
    return validationf("difficulty must be between %d and %d", types.MinDifficulty, types.MaxDifficulty)
  }
  return nil
}

func (hs *habitService) CreateHabit(ctx context.Context, userID uuid.UUID, input HabitInput) (*types.Habit, error) {
  if err := validateHabitInput(&input); err != nil {
    return nil, err
  }
  habit := &types.Habit{
    ID:          uuid.New(),
    UserID:      userID,
    Name:        input.Name,
    Description: input.Description,
    Category:    input.Category,
    Type:        input.Type,
    Difficulty:  input.Difficulty,
    IsActive:    true,
  }
  if _, err := hs.habitRepo.Create(ctx, nil, []*types.Habit{habit}); err != nil {
    return nil, fmt.Errorf("failed to create habit: %w", err)
  }
  return habit, nil
}

func (hs *habitService) ListHabits(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*types.Habit, error) {
  habits, err := hs.habitRepo.ListByUser(ctx, nil, userID, !includeArchived)
  if err != nil {
    return nil, fmt.Errorf("failed to list habits: %w", err)
  }
  return habits, nil
}

func (hs *habitService) GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*types.Habit, error) {
  return hs.ownedHabit(ctx, nil, userID, habitID)
}

func (hs *habitService) UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, input HabitInput) (*types.Habit, error) {
  if err := validateHabitInput(&input); err != nil {
    return nil, err
  }
  var updated *types.Habit
  err := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    habit, err := hs.ownedHabit(ctx, tx, userID, habitID)
    if err != nil {
      return err
    }
    habit.Name = input.Name
    habit.Description = input.Description
    habit.Category = input.Category
    habit.Type = input.Type
    habit.Difficulty = input.Difficulty
    if err := hs.habitRepo.Save(ctx, tx, habit); err != nil {
      return fmt.Errorf("failed to update habit: %w", err)
    }
    updated = habit
    return nil
  })
  if err != nil {
    return nil, err
  }
  return updated, nil
}

// ArchiveHabit soft-deletes: the habit leaves all streak and achievement
// computation but its log history stays. The habits_built/habits_broken
// bookkeeping is written here and only here.
func (hs *habitService) ArchiveHabit(ctx context.Context, userID, habitID uuid.UUID) error {
  return hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    habit, err := hs.ownedHabit(ctx, tx, userID, habitID)
    if err != nil {
      return err
    }
    if !habit.IsActive {
      return nil
    }
    habit.IsActive = false
    if err := hs.habitRepo.Save(ctx, tx, habit); err != nil {
      return fmt.Errorf("failed to archive habit: %w", err)
    }
    stats, err := hs.loadStats(ctx, tx, userID)
    if err != nil {
      return err
    }
    if habit.Type == types.HabitTypeBreak {
      stats.HabitsBroken++
    } else {
      stats.HabitsBuilt++
    }
    stats.LastUpdated = time.Now()
    if err := hs.statsRepo.Upsert(ctx, tx, stats); err != nil {
      return fmt.Errorf("failed to update user stats: %w", err)
    }
    return nil
  })
}

func (hs *habitService) LogCompletion(ctx context.Context, userID, habitID uuid.UUID, date time.Time, success bool, notes string) (*CompletionResult, error) {
  day := types.Midnight(date)
  today := types.Midnight(time.Now())
  if day.After(today) {
    return nil, validationf("cannot log a future date %s", types.DayKey(day))
  }

  var result *CompletionResult
  err := hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    habit, err := hs.ownedHabit(ctx, tx, userID, habitID)
    if err != nil {
      return err
    }
    if !habit.IsActive {
      return validationf("habit %q is archived", habit.Name)
    }

    // Streak as of the day before; the day being logged is step one of a
    // fresh run or extends the prior one.
    prior, err := hs.streaks.HabitStreak(ctx, tx, habitID, day.AddDate(0, 0, -1))
    if err != nil {
      return err
    }
    streakDay := 0
    points := 0
    if success {
      streakDay = prior + 1
      points = CompletionPoints(habit.Difficulty, streakDay)
    }

    existing, err := hs.logRepo.GetByHabitAndDate(ctx, tx, habitID, day)
    if err != nil {
      return fmt.Errorf("failed to look up existing log: %w", err)
    }
    delta := points
    if existing != nil {
      delta = points - existing.PointsEarned
    }

    entry := &types.HabitLog{
      HabitID:      habitID,
      Date:         day,
      Success:      success,
      PointsEarned: points,
      StreakDay:    streakDay,
      Notes:        notes,
      LoggedAt:     time.Now(),
    }
    if existing != nil {
      entry.ID = existing.ID
    }
    if err := hs.logRepo.Upsert(ctx, tx, entry); err != nil {
      return fmt.Errorf("failed to upsert habit log: %w", err)
    }

    total, level, err := applyPointsDelta(ctx, tx, hs.userRepo, userID, delta)
    if err != nil {
      return err
    }
    if err := hs.refreshStats(ctx, tx, userID); err != nil {
      return err
    }

    result = &CompletionResult{
      PointsEarned: points,
      StreakDay:    streakDay,
      TotalPoints:  total,
      Level:        level,
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

func (hs *habitService) ListLogs(ctx context.Context, userID, habitID uuid.UUID, from, to time.Time) ([]*types.HabitLog, error) {
  if _, err := hs.ownedHabit(ctx, nil, userID, habitID); err != nil {
    return nil, err
  }
  if to.IsZero() {
    to = time.Now()
  }
  logs, err := hs.logRepo.ListForHabitBetween(ctx, nil, habitID, from, to)
  if err != nil {
    return nil, fmt.Errorf("failed to list habit logs: %w", err)
  }
  return logs, nil
}

func (hs *habitService) HabitStreak(ctx context.Context, userID, habitID uuid.UUID, asOf time.Time) (int, error) {
  if _, err := hs.ownedHabit(ctx, nil, userID, habitID); err != nil {
    return 0, err
  }
  return hs.streaks.HabitStreak(ctx, nil, habitID, asOf)
}

func (hs *habitService) UserStreak(ctx context.Context, userID uuid.UUID, asOf time.Time) (int, error) {
  return hs.streaks.UserStreak(ctx, nil, userID, asOf)
}

func (hs *habitService) ownedHabit(ctx context.Context, tx *gorm.DB, userID, habitID uuid.UUID) (*types.Habit, error) {
  habits, err := hs.habitRepo.GetByIDs(ctx, tx, []uuid.UUID{habitID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch habit: %w", err)
  }
  if len(habits) == 0 || habits[0].UserID != userID {
    return nil, notFoundf("habit %s", habitID)
  }
  return habits[0], nil
}

func (hs *habitService) loadStats(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
  rows, err := hs.statsRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch user stats: %w", err)
  }
  if len(rows) > 0 {
    return rows[0], nil
  }
  return &types.UserStats{ID: uuid.New(), UserID: userID}, nil
}

// refreshStats rewrites the cached streak and completion counters from the
// log, inside the caller's transaction. habits_broken/habits_built are
// preserved as-is; the logging path does not own them.
func (hs *habitService) refreshStats(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  stats, err := hs.loadStats(ctx, tx, userID)
  if err != nil {
    return err
  }
  current, err := hs.streaks.UserStreak(ctx, tx, userID, time.Now())
  if err != nil {
    return err
  }
  longest, err := hs.streaks.LongestUserStreak(ctx, tx, userID)
  if err != nil {
    return err
  }
  logs, err := hs.logRepo.ListForUserBetween(ctx, tx, userID, time.Time{}, time.Now(), true)
  if err != nil {
    return fmt.Errorf("failed to load user logs: %w", err)
  }
  completed := 0
  for _, l := range logs {
    if l.Success {
      completed++
    }
  }
  stats.CurrentStreak = current
  stats.LongestStreak = longest
  stats.TotalHabitsCompleted = completed
  stats.LastUpdated = time.Now()
  if err := hs.statsRepo.Upsert(ctx, tx, stats); err != nil {
    return fmt.Errorf("failed to upsert user stats: %w", err)
  }
  return nil
}

// applyPointsDelta settles a points change against the user row and
// recomputes the level with the one leveling curve. Shared by completions,
// achievement rewards and challenge rewards. The delta is applied as a
// relative UPDATE first: that statement takes the row lock and re-evaluates
// against the committed total, so two settlements for the same user serialize
// instead of the later one erasing the earlier increment. The read-back and
// the clamped level write then happen under that same lock.
func applyPointsDelta(ctx context.Context, tx *gorm.DB, userRepo repos.UserRepo, userID uuid.UUID, delta int) (int, int, error) {
  if err := userRepo.IncrementPoints(ctx, tx, userID, delta); err != nil {
    return 0, 0, fmt.Errorf("failed to apply points delta: %w", err)
  }
  users, err := userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
  if err != nil {
    return 0, 0, fmt.Errorf("failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return 0, 0, notFoundf("user %s", userID)
  }
  total := users[0].TotalPoints
  if total < 0 {
    total = 0
  }
  level := LevelForPoints(total)
  if err := userRepo.UpdatePointsAndLevel(ctx, tx, userID, total, level); err != nil {
    return 0, 0, fmt.Errorf("failed to update points: %w", err)
  }
  return total, level, nil
}
