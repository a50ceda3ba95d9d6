package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

const (
  HabitTypeBuild = "build"
  HabitTypeBreak = "break"

  MinDifficulty = 1
  MaxDifficulty = 5
)

type Habit struct {
  ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
  User        *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  Name        string    `gorm:"not null;column:name" json:"name"`
  Description string    `gorm:"column:description" json:"description"`
  Category    string    `gorm:"column:category;index" json:"category"`
  Type        string    `gorm:"not null;default:'build';column:type" json:"type"`
  Difficulty  int       `gorm:"not null;default:1;column:difficulty" json:"difficulty"`
  IsActive    bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
  CreatedAt   time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Habit) TableName() string {
  return "habit"
}

func (h *Habit) BeforeCreate(tx *gorm.DB) error {
  if h.ID == uuid.Nil {
    h.ID = uuid.New()
  }
  return nil
}
