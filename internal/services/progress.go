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

type DashboardSummary struct {
  TotalPoints        int `json:"total_points"`
  Level              int `json:"level"`
  PointsForNextLevel int `json:"points_for_next_level"`
  CurrentStreak      int `json:"current_streak"`
  LongestStreak      int `json:"longest_streak"`
  ActiveHabits       int `json:"active_habits"`
  CompletedToday     int `json:"completed_today"`
  TotalCompletions   int `json:"total_completions"`
  AchievementsEarned int `json:"achievements_earned"`
}

type CategoryBreakdown struct {
  Category    string  `json:"category"`
  Completions int     `json:"completions"`
  Attempts    int     `json:"attempts"`
  SuccessRate float64 `json:"success_rate"`
}

type WeekdayBreakdown struct {
  Weekday     string `json:"weekday"`
  Completions int    `json:"completions"`
}

type HourBreakdown struct {
  Hour        int `json:"hour"`
  Completions int `json:"completions"`
}

type HabitSynergy struct {
  HabitA     string `json:"habit_a"`
  HabitB     string `json:"habit_b"`
  SharedDays int    `json:"shared_days"`
}

// synergyMinSharedDays is the reporting floor for habit pairs.
const synergyMinSharedDays = 3

// ProgressService produces read-only projections composed from logs, points
// and awards. Nothing here mutates state and nothing here is authoritative
// beyond the moment of the query.
type ProgressService interface {
  Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error)
  Categories(ctx context.Context, userID uuid.UUID) ([]*CategoryBreakdown, error)
  Weekdays(ctx context.Context, userID uuid.UUID) ([]*WeekdayBreakdown, error)
  Hours(ctx context.Context, userID uuid.UUID) ([]*HourBreakdown, error)
  Synergy(ctx context.Context, userID uuid.UUID) ([]*HabitSynergy, error)
}

type progressService struct {
  db        *gorm.DB
  log       *logger.Logger
  userRepo  repos.UserRepo
  habitRepo repos.HabitRepo
  logRepo   repos.HabitLogRepo
  awardRepo repos.UserAchievementRepo
  streaks   StreakService
}

func NewProgressService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  habitRepo repos.HabitRepo,
  logRepo repos.HabitLogRepo,
  awardRepo repos.UserAchievementRepo,
  streaks StreakService,
) ProgressService {
  return &progressService{
    db:        db,
    log:       log.With("service", "ProgressService"),
    userRepo:  userRepo,
    habitRepo: habitRepo,
    logRepo:   logRepo,
    awardRepo: awardRepo,
    streaks:   streaks,
  }
}

func (ps *progressService) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error) {
  users, err := ps.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return nil, notFoundf("user %s", userID)
  }
  user := users[0]

  habits, err := ps.habitRepo.ListByUser(ctx, nil, userID, true)
  if err != nil {
    return nil, fmt.Errorf("failed to list habits: %w", err)
  }
  today := types.Midnight(time.Now())
  logs, err := ps.logRepo.ListForUserBetween(ctx, nil, userID, time.Time{}, today, true)
  if err != nil {
    return nil, fmt.Errorf("failed to load logs: %w", err)
  }
  completedToday, totalCompletions := 0, 0
  for _, l := range logs {
    if !l.Success {
      continue
    }
    totalCompletions++
    if types.DayKey(l.Date) == types.DayKey(today) {
      completedToday++
    }
  }
  current, err := ps.streaks.UserStreak(ctx, nil, userID, today)
  if err != nil {
    return nil, err
  }
  longest, err := ps.streaks.LongestUserStreak(ctx, nil, userID)
  if err != nil {
    return nil, err
  }
  awards, err := ps.awardRepo.ListByUser(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("failed to list awards: %w", err)
  }

  return &DashboardSummary{
    TotalPoints:        user.TotalPoints,
    Level:              user.Level,
    PointsForNextLevel: PointsForNextLevel(user.Level),
    CurrentStreak:      current,
    LongestStreak:      longest,
    ActiveHabits:       len(habits),
    CompletedToday:     completedToday,
    TotalCompletions:   totalCompletions,
    AchievementsEarned: len(awards),
  }, nil
}

func (ps *progressService) Categories(ctx context.Context, userID uuid.UUID) ([]*CategoryBreakdown, error) {
  habits, err := ps.habitRepo.ListByUser(ctx, nil, userID, true)
  if err != nil {
    return nil, fmt.Errorf("failed to list habits: %w", err)
  }
  categoryOf := make(map[uuid.UUID]string, len(habits))
  for _, h := range habits {
    category := h.Category
    if category == "" {
      category = "uncategorized"
    }
    categoryOf[h.ID] = category
  }
  logs, err := ps.userLogs(ctx, userID)
  if err != nil {
    return nil, err
  }
  byCategory := make(map[string]*CategoryBreakdown)
  for _, l := range logs {
    category, ok := categoryOf[l.HabitID]
    if !ok {
      continue
    }
    row := byCategory[category]
    if row == nil {
      row = &CategoryBreakdown{Category: category}
      byCategory[category] = row
    }
    row.Attempts++
    if l.Success {
      row.Completions++
    }
  }
  out := make([]*CategoryBreakdown, 0, len(byCategory))
  for _, row := range byCategory {
    if row.Attempts > 0 {
      row.SuccessRate = float64(row.Completions) / float64(row.Attempts)
    }
    out = append(out, row)
  }
  sort.Slice(out, func(i, j int) bool { return out[i].Completions > out[j].Completions })
  return out, nil
}

func (ps *progressService) Weekdays(ctx context.Context, userID uuid.UUID) ([]*WeekdayBreakdown, error) {
  logs, err := ps.userLogs(ctx, userID)
  if err != nil {
    return nil, err
  }
  counts := make([]int, 7)
  for _, l := range logs {
    if l.Success {
      counts[int(types.Midnight(l.Date).Weekday())]++
    }
  }
  out := make([]*WeekdayBreakdown, 7)
  for i := 0; i < 7; i++ {
    out[i] = &WeekdayBreakdown{
      Weekday:     time.Weekday(i).String(),
      Completions: counts[i],
    }
  }
  return out, nil
}

func (ps *progressService) Hours(ctx context.Context, userID uuid.UUID) ([]*HourBreakdown, error) {
  logs, err := ps.userLogs(ctx, userID)
  if err != nil {
    return nil, err
  }
  counts := make([]int, 24)
  for _, l := range logs {
    if l.Success {
      counts[l.LoggedAt.Local().Hour()]++
    }
  }
  out := make([]*HourBreakdown, 24)
  for i := 0; i < 24; i++ {
    out[i] = &HourBreakdown{Hour: i, Completions: counts[i]}
  }
  return out, nil
}

// Synergy counts shared successful calendar days between habit pairs, a
// naive co-occurrence score.
func (ps *progressService) Synergy(ctx context.Context, userID uuid.UUID) ([]*HabitSynergy, error) {
  habits, err := ps.habitRepo.ListByUser(ctx, nil, userID, true)
  if err != nil {
    return nil, fmt.Errorf("failed to list habits: %w", err)
  }
  logs, err := ps.userLogs(ctx, userID)
  if err != nil {
    return nil, err
  }
  daysByHabit := make(map[uuid.UUID]map[string]struct{})
  for _, l := range logs {
    if !l.Success {
      continue
    }
    if daysByHabit[l.HabitID] == nil {
      daysByHabit[l.HabitID] = make(map[string]struct{})
    }
    daysByHabit[l.HabitID][types.DayKey(l.Date)] = struct{}{}
  }

  var out []*HabitSynergy
  for i := 0; i < len(habits); i++ {
    for j := i + 1; j < len(habits); j++ {
      a, b := habits[i], habits[j]
      shared := 0
      for day := range daysByHabit[a.ID] {
        if _, ok := daysByHabit[b.ID][day]; ok {
          shared++
        }
      }
      if shared >= synergyMinSharedDays {
        out = append(out, &HabitSynergy{HabitA: a.Name, HabitB: b.Name, SharedDays: shared})
      }
    }
  }
  sort.Slice(out, func(i, j int) bool { return out[i].SharedDays > out[j].SharedDays })
  return out, nil
}

func (ps *progressService) userLogs(ctx context.Context, userID uuid.UUID) ([]*types.HabitLog, error) {
  logs, err := ps.logRepo.ListForUserBetween(ctx, nil, userID, time.Time{}, types.Midnight(time.Now()), true)
  if err != nil {
    return nil, fmt.Errorf("failed to load logs: %w", err)
  }
  return logs, nil
}
