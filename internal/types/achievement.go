package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

const (
  ConditionStreak          = "streak"
  ConditionTotalPoints     = "total_points"
  ConditionHabitsCompleted = "habits_completed"
  ConditionHabitsCreated   = "habits_created"
  ConditionCategoryVariety = "category_variety"
  ConditionEarlyBird       = "early_bird"
  ConditionNightOwl        = "night_owl"
  ConditionPerfectWeek     = "perfect_week"
  ConditionComeback        = "comeback"
  ConditionUserLevel       = "user_level"
  ConditionHabitLogs       = "habit_logs"
  ConditionWeekendLogs     = "weekend_logs"
)

// Achievement is a condition definition, not a per-user award; awards live in
// UserAchievement.
type Achievement struct {
  ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  Name           string         `gorm:"uniqueIndex;not null;column:name" json:"name"`
  Description    string         `gorm:"column:description" json:"description"`
  Icon           string         `gorm:"column:icon" json:"icon"`
  ConditionType  string         `gorm:"not null;column:condition_type;index" json:"condition_type"`
  ConditionValue int            `gorm:"not null;column:condition_value" json:"condition_value"`
  PointsReward   int            `gorm:"not null;default:0;column:points_reward" json:"points_reward"`
  IsSecret       bool           `gorm:"not null;default:false;column:is_secret" json:"is_secret"`
  Metadata       datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
  CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (Achievement) TableName() string {
  return "achievement"
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
  if a.ID == uuid.Nil {
    a.ID = uuid.New()
  }
  return nil
}
