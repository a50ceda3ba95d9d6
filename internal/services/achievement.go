package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/repos"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

// AchievementProgress reports one achievement's state for a user. Earned rows
// report threshold as both current and target.
type AchievementProgress struct {
  Achievement *types.Achievement `json:"achievement"`
  IsEarned    bool               `json:"is_earned"`
  Current     int                `json:"current"`
  Target      int                `json:"target"`
  EarnedAt    *time.Time         `json:"earned_at,omitempty"`
}

// AchievementService owns the condition-evaluation table. Evaluation is only
// ever explicit: nothing subscribes to log writes, the routing layer calls
// Evaluate after state-changing operations.
type AchievementService interface {
  // Evaluate tests every not-yet-earned achievement against freshly
  // computed statistics and returns the newly awarded ones. Each award and
  // its points reward land in the same transaction; a duplicate award lost
  // to a concurrent request is swallowed and not reported.
  Evaluate(ctx context.Context, userID uuid.UUID) ([]*types.Achievement, error)
  Progress(ctx context.Context, userID uuid.UUID) ([]*AchievementProgress, error)
  ListEarned(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error)
}

type achievementService struct {
  db        *gorm.DB
  log       *logger.Logger
  achRepo   repos.AchievementRepo
  awardRepo repos.UserAchievementRepo
  habitRepo repos.HabitRepo
  logRepo   repos.HabitLogRepo
  userRepo  repos.UserRepo
  streaks   StreakService
}

func NewAchievementService(
  db *gorm.DB,
  log *logger.Logger,
  achRepo repos.AchievementRepo,
  awardRepo repos.UserAchievementRepo,
  habitRepo repos.HabitRepo,
  logRepo repos.HabitLogRepo,
  userRepo repos.UserRepo,
  streaks StreakService,
) AchievementService {
  return &achievementService{
    db:        db,
    log:       log.With("service", "AchievementService"),
    achRepo:   achRepo,
    awardRepo: awardRepo,
    habitRepo: habitRepo,
    logRepo:   logRepo,
    userRepo:  userRepo,
    streaks:   streaks,
  }
}

// userMetrics is the statistics bag one evaluation pass runs against. All of
// it is recomputed from the log inside the evaluating transaction; nothing is
// trusted from the UserStats cache.
type userMetrics struct {
  streak         int
  totalPoints    int
  level          int
  completions    int
  totalLogs      int
  activeHabits   int
  categories     int
  earlyBirdLogs  int
  nightOwlLogs   int
  perfectRun     int
  comebacks      int
  weekendSuccess int
}

func (as *achievementService) Evaluate(ctx context.Context, userID uuid.UUID) ([]*types.Achievement, error) {
  var newly []*types.Achievement
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    metrics, err := as.collectMetrics(ctx, tx, userID)
    if err != nil {
      return err
    }
    all, err := as.achRepo.ListAll(ctx, tx)
    if err != nil {
      return fmt.Errorf("failed to list achievements: %w", err)
    }
    earned, err := as.earnedSet(ctx, tx, userID)
    if err != nil {
      return err
    }

    rewardTotal := 0
    now := time.Now()
    for _, a := range all {
      if _, ok := earned[a.ID]; ok {
        continue
      }
      if metricFor(a, metrics) < a.ConditionValue {
        continue
      }
      award := &types.UserAchievement{
        ID:            uuid.New(),
        UserID:        userID,
        AchievementID: a.ID,
        EarnedAt:      now,
      }
      created, err := as.awardRepo.Create(ctx, tx, award)
      if err != nil {
        return fmt.Errorf("failed to insert achievement award: %w", err)
      }
      if !created {
        // A concurrent request won the race; that award is theirs.
        continue
      }
      newly = append(newly, a)
      rewardTotal += a.PointsReward
    }

    if rewardTotal > 0 {
      if _, _, err := applyPointsDelta(ctx, tx, as.userRepo, userID, rewardTotal); err != nil {
        return err
      }
    }
    return nil
  })
  if err != nil {
    newly = nil
    return nil, err
  }
  if newly == nil {
    newly = []*types.Achievement{}
  }
  return newly, nil
}

func (as *achievementService) Progress(ctx context.Context, userID uuid.UUID) ([]*AchievementProgress, error) {
  metrics, err := as.collectMetrics(ctx, nil, userID)
  if err != nil {
    return nil, err
  }
  all, err := as.achRepo.ListAll(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("failed to list achievements: %w", err)
  }
  awards, err := as.awardRepo.ListByUser(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("failed to list earned achievements: %w", err)
  }
  earnedAt := make(map[uuid.UUID]time.Time, len(awards))
  for _, aw := range awards {
    earnedAt[aw.AchievementID] = aw.EarnedAt
  }

  out := make([]*AchievementProgress, 0, len(all))
  for _, a := range all {
    when, isEarned := earnedAt[a.ID]
    if a.IsSecret && !isEarned {
      // Secret achievements stay hidden until won.
      continue
    }
    p := &AchievementProgress{
      Achievement: a,
      IsEarned:    isEarned,
      Target:      a.ConditionValue,
    }
    if isEarned {
      p.Current = a.ConditionValue
      t := when
      p.EarnedAt = &t
    } else {
      current := metricFor(a, metrics)
      if current > a.ConditionValue {
        current = a.ConditionValue
      }
      p.Current = current
    }
    out = append(out, p)
  }
  return out, nil
}

func (as *achievementService) ListEarned(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error) {
  awards, err := as.awardRepo.ListByUser(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("failed to list earned achievements: %w", err)
  }
  if len(awards) == 0 {
    return awards, nil
  }
  ids := make([]uuid.UUID, 0, len(awards))
  for _, aw := range awards {
    ids = append(ids, aw.AchievementID)
  }
  defs, err := as.achRepo.GetByIDs(ctx, nil, ids)
  if err != nil {
    return nil, fmt.Errorf("failed to load achievement definitions: %w", err)
  }
  byID := make(map[uuid.UUID]*types.Achievement, len(defs))
  for _, d := range defs {
    byID[d.ID] = d
  }
  for _, aw := range awards {
    aw.Achievement = byID[aw.AchievementID]
  }
  return awards, nil
}

func (as *achievementService) earnedSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
  awards, err := as.awardRepo.ListByUser(ctx, tx, userID)
  if err != nil {
    return nil, fmt.Errorf("failed to list earned achievements: %w", err)
  }
  earned := make(map[uuid.UUID]struct{}, len(awards))
  for _, aw := range awards {
    earned[aw.AchievementID] = struct{}{}
  }
  return earned, nil
}

func (as *achievementService) collectMetrics(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*userMetrics, error) {
  users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return nil, notFoundf("user %s", userID)
  }
  user := users[0]

  habits, err := as.habitRepo.ListByUser(ctx, tx, userID, true)
  if err != nil {
    return nil, fmt.Errorf("failed to list habits: %w", err)
  }
  categories, err := as.habitRepo.DistinctCategoriesByUser(ctx, tx, userID)
  if err != nil {
    return nil, fmt.Errorf("failed to list categories: %w", err)
  }

  today := types.Midnight(time.Now())
  logs, err := as.logRepo.ListForUserBetween(ctx, tx, userID, time.Time{}, today, true)
  if err != nil {
    return nil, fmt.Errorf("failed to load user logs: %w", err)
  }

  streak, err := as.streaks.UserStreak(ctx, tx, userID, today)
  if err != nil {
    return nil, err
  }

  m := &userMetrics{
    streak:       streak,
    totalPoints:  user.TotalPoints,
    level:        user.Level,
    activeHabits: len(habits),
    categories:   len(categories),
    totalLogs:    len(logs),
  }

  // Today and the six days before it: a seven calendar day window.
  weekAgo := today.AddDate(0, 0, -6)
  monthAgo := today.AddDate(0, 0, -30)
  successByHabit := make(map[uuid.UUID][]time.Time)
  perfectDays := make(map[string]map[uuid.UUID]struct{})

  for _, l := range logs {
    if !l.Success {
      continue
    }
    m.completions++
    day := types.Midnight(l.Date)
    wd := day.Weekday()
    if wd == time.Saturday || wd == time.Sunday {
      m.weekendSuccess++
    }
    if !day.Before(weekAgo) {
      hour := l.LoggedAt.Local().Hour()
      if hour < 7 {
        m.earlyBirdLogs++
      }
      if hour >= 22 {
        m.nightOwlLogs++
      }
    }
    successByHabit[l.HabitID] = append(successByHabit[l.HabitID], day)
    key := types.DayKey(day)
    if perfectDays[key] == nil {
      perfectDays[key] = make(map[uuid.UUID]struct{})
    }
    perfectDays[key][l.HabitID] = struct{}{}
  }

  // Comeback: a successful log inside the last 30 days whose previous
  // success on the same habit is at least 7 days older. Lists arrive date
  // DESC from the repo, so walk pairs as (later, earlier).
  for _, dates := range successByHabit {
    for i := 0; i+1 < len(dates); i++ {
      later, earlier := dates[i], dates[i+1]
      if later.Before(monthAgo) {
        break
      }
      if later.Sub(earlier) >= 7*24*time.Hour {
        m.comebacks++
        break
      }
    }
  }

  // Perfect week: the longest run of consecutive days within the trailing
  // 14 where every active habit succeeded. No active habits, no perfect
  // days.
  if m.activeHabits > 0 {
    run := 0
    for offset := 13; offset >= 0; offset-- {
      day := today.AddDate(0, 0, -offset)
      if len(perfectDays[types.DayKey(day)]) == m.activeHabits {
        run++
        if run > m.perfectRun {
          m.perfectRun = run
        }
      } else {
        run = 0
      }
    }
  }

  return m, nil
}

// metricFor is the single condition table: the current value compared against
// an achievement's threshold.
func metricFor(a *types.Achievement, m *userMetrics) int {
  switch a.ConditionType {
  case types.ConditionStreak:
    return m.streak
  case types.ConditionTotalPoints:
    return m.totalPoints
  case types.ConditionHabitsCompleted:
    return m.completions
  case types.ConditionHabitsCreated:
    return m.activeHabits
  case types.ConditionCategoryVariety:
    return m.categories
  case types.ConditionEarlyBird:
    return m.earlyBirdLogs
  case types.ConditionNightOwl:
    return m.nightOwlLogs
  case types.ConditionPerfectWeek:
    return m.perfectRun
  case types.ConditionComeback:
    return m.comebacks
  case types.ConditionUserLevel:
    return m.level
  case types.ConditionHabitLogs:
    return m.totalLogs
  case types.ConditionWeekendLogs:
    return m.weekendSuccess
  default:
    return 0
  }
}
