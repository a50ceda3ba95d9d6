package services

import (
  "context"
  "fmt"
  "sort"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/repos"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

// StreakService derives streaks from habit_log at call time. The persisted
// UserStats.current_streak is a cache and is never read back here; log rows
// can be edited retroactively, so only a fresh walk over the log is
// authoritative.
type StreakService interface {
  // HabitStreak walks calendar days backward from asOf. The asOf day's own
  // log counts when successful; a failed log on asOf yields 0 regardless of
  // prior history; a missing asOf entry falls through to the run ending the
  // day before. Gaps are never bridged.
  HabitStreak(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, asOf time.Time) (int, error)
  // UserStreak is the cross-habit variant: a day qualifies when at least one
  // of the user's active habits has a successful log on it.
  UserStreak(ctx context.Context, tx *gorm.DB, userID uuid.UUID, asOf time.Time) (int, error)
  // LongestUserStreak scans the user's whole log history for the longest
  // run of qualifying days.
  LongestUserStreak(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
}

type streakService struct {
  db      *gorm.DB
  log     *logger.Logger
  logRepo repos.HabitLogRepo
}

func NewStreakService(db *gorm.DB, log *logger.Logger, logRepo repos.HabitLogRepo) StreakService {
  return &streakService{db: db, log: log.With("service", "StreakService"), logRepo: logRepo}
}

func (ss *streakService) HabitStreak(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, asOf time.Time) (int, error) {
  asOf = types.Midnight(asOf)
  logs, err := ss.logRepo.ListForHabitBetween(ctx, tx, habitID, time.Time{}, asOf)
  if err != nil {
    return 0, fmt.Errorf("failed to load habit logs: %w", err)
  }
  days := make(map[string]bool, len(logs))
  for _, l := range logs {
    days[types.DayKey(l.Date)] = l.Success
  }
  if success, logged := days[types.DayKey(asOf)]; logged {
    if !success {
      return 0, nil
    }
    return countRun(days, asOf), nil
  }
  return countRun(days, asOf.AddDate(0, 0, -1)), nil
}

func (ss *streakService) UserStreak(ctx context.Context, tx *gorm.DB, userID uuid.UUID, asOf time.Time) (int, error) {
  asOf = types.Midnight(asOf)
  days, err := ss.userSuccessDays(ctx, tx, userID, asOf)
  if err != nil {
    return 0, err
  }
  if days[types.DayKey(asOf)] {
    return countRun(days, asOf), nil
  }
  return countRun(days, asOf.AddDate(0, 0, -1)), nil
}

func (ss *streakService) LongestUserStreak(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
  days, err := ss.userSuccessDays(ctx, tx, userID, types.Midnight(time.Now()))
  if err != nil {
    return 0, err
  }
  dates := make([]time.Time, 0, len(days))
  for key, ok := range days {
    if !ok {
      continue
    }
    d, err := time.Parse("2006-01-02", key)
    if err != nil {
      continue
    }
    dates = append(dates, d)
  }
  sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

  longest, run := 0, 0
  var prev time.Time
  for i, d := range dates {
    if i > 0 && d.Sub(prev) == 24*time.Hour {
      run++
    } else {
      run = 1
    }
    if run > longest {
      longest = run
    }
    prev = d
  }
  return longest, nil
}

// userSuccessDays maps day keys to "any active habit succeeded that day".
func (ss *streakService) userSuccessDays(ctx context.Context, tx *gorm.DB, userID uuid.UUID, until time.Time) (map[string]bool, error) {
  logs, err := ss.logRepo.ListForUserBetween(ctx, tx, userID, time.Time{}, until, true)
  if err != nil {
    return nil, fmt.Errorf("failed to load user logs: %w", err)
  }
  days := make(map[string]bool, len(logs))
  for _, l := range logs {
    if l.Success {
      days[types.DayKey(l.Date)] = true
    }
  }
  return days, nil
}

// countRun counts consecutive successful days ending at `day`, walking
// backward until the first day that is missing or failed.
func countRun(days map[string]bool, day time.Time) int {
  run := 0
  for {
    if !days[types.DayKey(day)] {
      return run
    }
    run++
    day = day.AddDate(0, 0, -1)
  }
}
