package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// UserStats is a cache row. CurrentStreak is refreshed on every log write and
// still recomputed from habit_log before any decision depends on it;
// HabitsBroken/HabitsBuilt are archive-path bookkeeping the logging path
// never touches.
type UserStats struct {
  ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  UserID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
  User                 *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  CurrentStreak        int       `gorm:"not null;default:0;column:current_streak" json:"current_streak"`
  LongestStreak        int       `gorm:"not null;default:0;column:longest_streak" json:"longest_streak"`
  TotalHabitsCompleted int       `gorm:"not null;default:0;column:total_habits_completed" json:"total_habits_completed"`
  HabitsBroken         int       `gorm:"not null;default:0;column:habits_broken" json:"habits_broken"`
  HabitsBuilt          int       `gorm:"not null;default:0;column:habits_built" json:"habits_built"`
  LastUpdated          time.Time `gorm:"column:last_updated" json:"last_updated"`
  CreatedAt            time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`
}

func (UserStats) TableName() string {
  return "user_stats"
}

func (s *UserStats) BeforeCreate(tx *gorm.DB) error {
  if s.ID == uuid.Nil {
    s.ID = uuid.New()
  }
  return nil
}
