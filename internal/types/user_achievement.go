package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// UserAchievement records one award per (user, achievement). Created exactly
// once, never mutated; the unique index is what guards concurrent awards.
type UserAchievement struct {
  ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
  UserID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement,priority:1" json:"user_id"`
  User          *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  AchievementID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement,priority:2" json:"achievement_id"`
  Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE;foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`
  EarnedAt      time.Time    `gorm:"not null;column:earned_at" json:"earned_at"`
  CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
}

func (UserAchievement) TableName() string {
  return "user_achievement"
}

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
  if ua.ID == uuid.Nil {
    ua.ID = uuid.New()
  }
  return nil
}
