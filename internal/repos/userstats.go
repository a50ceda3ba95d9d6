package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type UserStatsRepo interface {
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserStats, error)
  Upsert(ctx context.Context, tx *gorm.DB, stats *types.UserStats) error
}

type userStatsRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
  return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (sr *userStatsRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return sr.db
}

func (sr *userStatsRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserStats, error) {
  var results []*types.UserStats
  if len(userIDs) == 0 {
    return results, nil
  }
  if err := sr.handle(tx).WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *userStatsRepo) Upsert(ctx context.Context, tx *gorm.DB, stats *types.UserStats) error {
  return sr.handle(tx).WithContext(ctx).Clauses(clause.OnConflict{
    Columns: []clause.Column{{Name: "user_id"}},
    DoUpdates: clause.AssignmentColumns([]string{
      "current_streak", "longest_streak", "total_habits_completed",
      "habits_broken", "habits_built", "last_updated", "updated_at",
    }),
  }).Create(stats).Error
}
