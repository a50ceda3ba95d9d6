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

type UserService interface {
  GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
  // GetStats returns the cached stats row with current_streak freshly
  // recomputed from the log; the persisted value is never returned as-is.
  GetStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error)
  DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
  db        *gorm.DB
  log       *logger.Logger
  userRepo  repos.UserRepo
  statsRepo repos.UserStatsRepo
  streaks   StreakService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, statsRepo repos.UserStatsRepo, streaks StreakService) UserService {
  return &userService{
    db:        db,
    log:       log.With("service", "UserService"),
    userRepo:  userRepo,
    statsRepo: statsRepo,
    streaks:   streaks,
  }
}

func (us *userService) GetByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
  users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return nil, notFoundf("user %s", userID)
  }
  return users[0], nil
}

func (us *userService) GetStats(ctx context.Context, userID uuid.UUID) (*types.UserStats, error) {
  rows, err := us.statsRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch user stats: %w", err)
  }
  var stats *types.UserStats
  if len(rows) > 0 {
    stats = rows[0]
  } else {
    stats = &types.UserStats{ID: uuid.New(), UserID: userID}
  }
  current, err := us.streaks.UserStreak(ctx, nil, userID, time.Now())
  if err != nil {
    return nil, err
  }
  stats.CurrentStreak = current
  if current > stats.LongestStreak {
    stats.LongestStreak = current
  }
  return stats, nil
}

func (us *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
  return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := us.userRepo.Delete(ctx, tx, userID); err != nil {
      return fmt.Errorf("failed to delete user: %w", err)
    }
    return nil
  })
}
