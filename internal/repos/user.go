package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type UserRepo interface {
  Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
  GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error)
  EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error)
  // IncrementPoints adds delta to total_points in place. The relative update
  // re-evaluates under the row lock, so concurrent settlements for the same
  // user serialize instead of overwriting each other's totals.
  IncrementPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
  UpdatePointsAndLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalPoints, level int) error
  CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
  CountWithFewerPoints(ctx context.Context, tx *gorm.DB, points int) (int64, error)
  Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return ur.db
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  if len(users) == 0 {
    return []*types.User{}, nil
  }
  if err := ur.handle(tx).WithContext(ctx).Create(&users).Error; err != nil {
    return nil, err
  }
  return users, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
  var results []*types.User
  if len(userIDs) == 0 {
    return results, nil
  }
  if err := ur.handle(tx).WithContext(ctx).
    Where("id IN ?", userIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ur *userRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
  var results []*types.User
  if len(userEmails) == 0 {
    return results, nil
  }
  if err := ur.handle(tx).WithContext(ctx).
    Where("email IN ?", userEmails).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
  var count int64
  if err := ur.handle(tx).WithContext(ctx).
    Model(&types.User{}).
    Where("email = ?", userEmail).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (ur *userRepo) IncrementPoints(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
  return ur.handle(tx).WithContext(ctx).
    Model(&types.User{}).
    Where("id = ?", userID).
    Update("total_points", gorm.Expr("total_points + ?", delta)).Error
}

func (ur *userRepo) UpdatePointsAndLevel(ctx context.Context, tx *gorm.DB, userID uuid.UUID, totalPoints, level int) error {
  return ur.handle(tx).WithContext(ctx).
    Model(&types.User{}).
    Where("id = ?", userID).
    Updates(map[string]interface{}{"total_points": totalPoints, "level": level}).Error
}

func (ur *userRepo) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
  var count int64
  if err := ur.handle(tx).WithContext(ctx).
    Model(&types.User{}).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (ur *userRepo) CountWithFewerPoints(ctx context.Context, tx *gorm.DB, points int) (int64, error) {
  var count int64
  if err := ur.handle(tx).WithContext(ctx).
    Model(&types.User{}).
    Where("total_points < ?", points).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (ur *userRepo) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  return ur.handle(tx).WithContext(ctx).
    Where("id = ?", userID).
    Delete(&types.User{}).Error
}
