package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type AchievementRepo interface {
  Create(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) ([]*types.Achievement, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, achievementIDs []uuid.UUID) ([]*types.Achievement, error)
  ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error)
}

type achievementRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
  return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (ar *achievementRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ar.db
}

func (ar *achievementRepo) Create(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) ([]*types.Achievement, error) {
  if len(achievements) == 0 {
    return []*types.Achievement{}, nil
  }
  if err := ar.handle(tx).WithContext(ctx).Create(&achievements).Error; err != nil {
    return nil, err
  }
  return achievements, nil
}

func (ar *achievementRepo) GetByIDs(ctx context.Context, tx *gorm.DB, achievementIDs []uuid.UUID) ([]*types.Achievement, error) {
  var results []*types.Achievement
  if len(achievementIDs) == 0 {
    return results, nil
  }
  if err := ar.handle(tx).WithContext(ctx).
    Where("id IN ?", achievementIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ar *achievementRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
  var results []*types.Achievement
  if err := ar.handle(tx).WithContext(ctx).
    Order("condition_type ASC, condition_value ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
