package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

type User struct {
  ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  Email       string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
  Password    string    `gorm:"not null;column:password" json:"-"`
  FirstName   string    `gorm:"not null;column:first_name" json:"first_name"`
  LastName    string    `gorm:"not null;column:last_name" json:"last_name"`
  AvatarColor string    `gorm:"column:avatar_color" json:"avatar_color"`
  TotalPoints int       `gorm:"not null;default:0;column:total_points" json:"total_points"`
  Level       int       `gorm:"not null;default:1;column:level" json:"level"`
  CreatedAt   time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
  if u.ID == uuid.Nil {
    u.ID = uuid.New()
  }
  return nil
}
