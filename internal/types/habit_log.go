package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

// HabitLog holds one outcome per (habit, calendar day). Date is always a UTC
// midnight; the unique index makes a re-log of the same day an overwrite, not
// a second row. StreakDay is the streak length as computed when the row was
// written and is never rewritten by later edits of earlier days.
type HabitLog struct {
  ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  HabitID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_habit_log_day,priority:1" json:"habit_id"`
  Habit        *Habit         `gorm:"constraint:OnDelete:CASCADE;foreignKey:HabitID;references:ID" json:"-"`
  Date         time.Time      `gorm:"not null;uniqueIndex:idx_habit_log_day,priority:2;column:date" json:"date"`
  Success      bool           `gorm:"not null;column:success" json:"success"`
  PointsEarned int            `gorm:"not null;default:0;column:points_earned" json:"points_earned"`
  StreakDay    int            `gorm:"not null;default:0;column:streak_day" json:"streak_day"`
  Notes        string         `gorm:"column:notes" json:"notes"`
  Metadata     datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
  LoggedAt     time.Time      `gorm:"not null;column:logged_at" json:"logged_at"`
  CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (HabitLog) TableName() string {
  return "habit_log"
}

func (l *HabitLog) BeforeCreate(tx *gorm.DB) error {
  if l.ID == uuid.Nil {
    l.ID = uuid.New()
  }
  return nil
}

// DayKey formats a calendar day the way log lookups key it.
func DayKey(t time.Time) string {
  return t.UTC().Format("2006-01-02")
}

// Midnight truncates t to its UTC calendar day.
func Midnight(t time.Time) time.Time {
  u := t.UTC()
  return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
