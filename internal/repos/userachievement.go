package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type UserAchievementRepo interface {
  // Create inserts a single award row with ON CONFLICT DO NOTHING on the
  // (user, achievement) pair, so losing an award race never aborts the
  // surrounding transaction. Returns false when the row already existed.
  Create(ctx context.Context, tx *gorm.DB, award *types.UserAchievement) (bool, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error)
}

type userAchievementRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
  return &userAchievementRepo{db: db, log: baseLog.With("repo", "UserAchievementRepo")}
}

func (ar *userAchievementRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ar.db
}

func (ar *userAchievementRepo) Create(ctx context.Context, tx *gorm.DB, award *types.UserAchievement) (bool, error) {
  result := ar.handle(tx).WithContext(ctx).Clauses(clause.OnConflict{
    Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
    DoNothing: true,
  }).Create(award)
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected > 0, nil
}

func (ar *userAchievementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
  var results []*types.UserAchievement
  if err := ar.handle(tx).WithContext(ctx).
    Where("user_id = ?", userID).
    Order("earned_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
