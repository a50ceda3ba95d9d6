package repos

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type HabitLogRepo interface {
  // Upsert inserts the log or, when a row for (habit_id, date) already
  // exists, overwrites its outcome fields. Never produces a second row for
  // the same day.
  Upsert(ctx context.Context, tx *gorm.DB, log *types.HabitLog) error
  GetByHabitAndDate(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, date time.Time) (*types.HabitLog, error)
  ListForHabitBetween(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, from, to time.Time) ([]*types.HabitLog, error)
  // ListForUserBetween returns logs across all of the user's habits,
  // active habits only when activeOnly is set. A zero `from` means
  // unbounded.
  ListForUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time, activeOnly bool) ([]*types.HabitLog, error)
}

type habitLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewHabitLogRepo(db *gorm.DB, baseLog *logger.Logger) HabitLogRepo {
  return &habitLogRepo{db: db, log: baseLog.With("repo", "HabitLogRepo")}
}

func (lr *habitLogRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return lr.db
}

func (lr *habitLogRepo) Upsert(ctx context.Context, tx *gorm.DB, log *types.HabitLog) error {
  log.Date = types.Midnight(log.Date)
  return lr.handle(tx).WithContext(ctx).Clauses(clause.OnConflict{
    Columns: []clause.Column{{Name: "habit_id"}, {Name: "date"}},
    DoUpdates: clause.AssignmentColumns([]string{
      "success", "points_earned", "streak_day", "notes", "logged_at", "updated_at",
    }),
  }).Create(log).Error
}

func (lr *habitLogRepo) GetByHabitAndDate(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, date time.Time) (*types.HabitLog, error) {
  var result types.HabitLog
  err := lr.handle(tx).WithContext(ctx).
    Where("habit_id = ? AND date = ?", habitID, types.Midnight(date)).
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (lr *habitLogRepo) ListForHabitBetween(ctx context.Context, tx *gorm.DB, habitID uuid.UUID, from, to time.Time) ([]*types.HabitLog, error) {
  var results []*types.HabitLog
  query := lr.handle(tx).WithContext(ctx).
    Where("habit_id = ? AND date <= ?", habitID, types.Midnight(to))
  if !from.IsZero() {
    query = query.Where("date >= ?", types.Midnight(from))
  }
  if err := query.Order("date DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (lr *habitLogRepo) ListForUserBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time, activeOnly bool) ([]*types.HabitLog, error) {
  var results []*types.HabitLog
  query := lr.handle(tx).WithContext(ctx).
    Joins("JOIN habit ON habit.id = habit_log.habit_id").
    Where("habit.user_id = ? AND habit_log.date <= ?", userID, types.Midnight(to))
  if activeOnly {
    query = query.Where("habit.is_active = ?", true)
  }
  if !from.IsZero() {
    query = query.Where("habit_log.date >= ?", types.Midnight(from))
  }
  if err := query.Order("habit_log.date DESC").Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
