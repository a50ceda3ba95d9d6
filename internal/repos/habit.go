package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type HabitRepo interface {
  Create(ctx context.Context, tx *gorm.DB, habits []*types.Habit) ([]*types.Habit, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) ([]*types.Habit, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*types.Habit, error)
  Save(ctx context.Context, tx *gorm.DB, habit *types.Habit) error
  CountActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
  DistinctCategoriesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]string, error)
}

type habitRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewHabitRepo(db *gorm.DB, baseLog *logger.Logger) HabitRepo {
  return &habitRepo{db: db, log: baseLog.With("repo", "HabitRepo")}
}

func (hr *habitRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return hr.db
}

func (hr *habitRepo) Create(ctx context.Context, tx *gorm.DB, habits []*types.Habit) ([]*types.Habit, error) {
  if len(habits) == 0 {
    return []*types.Habit{}, nil
  }
  if err := hr.handle(tx).WithContext(ctx).Create(&habits).Error; err != nil {
    return nil, err
  }
  return habits, nil
}

func (hr *habitRepo) GetByIDs(ctx context.Context, tx *gorm.DB, habitIDs []uuid.UUID) ([]*types.Habit, error) {
  var results []*types.Habit
  if len(habitIDs) == 0 {
    return results, nil
  }
  if err := hr.handle(tx).WithContext(ctx).
    Where("id IN ?", habitIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (hr *habitRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activeOnly bool) ([]*types.Habit, error) {
  var results []*types.Habit
  query := hr.handle(tx).WithContext(ctx).Where("user_id = ?", userID)
  if activeOnly {
    query = query.Where("is_active = ?", true)
  }
  if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (hr *habitRepo) Save(ctx context.Context, tx *gorm.DB, habit *types.Habit) error {
  return hr.handle(tx).WithContext(ctx).Save(habit).Error
}

func (hr *habitRepo) CountActiveByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
  var count int64
  if err := hr.handle(tx).WithContext(ctx).
    Model(&types.Habit{}).
    Where("user_id = ? AND is_active = ?", userID, true).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (hr *habitRepo) DistinctCategoriesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]string, error) {
  var categories []string
  if err := hr.handle(tx).WithContext(ctx).
    Model(&types.Habit{}).
    Where("user_id = ? AND is_active = ? AND category <> ''", userID, true).
    Distinct("category").
    Pluck("category", &categories).Error; err != nil {
    return nil, err
  }
  return categories, nil
}
