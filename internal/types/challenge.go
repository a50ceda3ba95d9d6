package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

const (
  ChallengeTargetCompletions = "completions"
  ChallengeTargetStreak      = "streak"
  ChallengeTargetPerfectDays = "perfect_days"
)

// Challenge is a time-boxed goal shared by all participants. Progress is
// derived from habit_log rows inside [StartsAt, EndsAt], never stored as
// authoritative.
type Challenge struct {
  ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  Name         string    `gorm:"not null;column:name" json:"name"`
  Description  string    `gorm:"column:description" json:"description"`
  TargetType   string    `gorm:"not null;default:'completions';column:target_type" json:"target_type"`
  TargetValue  int       `gorm:"not null;column:target_value" json:"target_value"`
  PointsReward int       `gorm:"not null;default:0;column:points_reward" json:"points_reward"`
  StartsAt     time.Time `gorm:"not null;column:starts_at" json:"starts_at"`
  EndsAt       time.Time `gorm:"not null;column:ends_at" json:"ends_at"`
  IsActive     bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
  CreatedAt    time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Challenge) TableName() string {
  return "challenge"
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) error {
  if c.ID == uuid.Nil {
    c.ID = uuid.New()
  }
  return nil
}

type ChallengeParticipant struct {
  ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  ChallengeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_challenge_user,priority:1" json:"challenge_id"`
  Challenge   *Challenge `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"challenge,omitempty"`
  UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_challenge_user,priority:2" json:"user_id"`
  User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  Progress    int        `gorm:"not null;default:0;column:progress" json:"progress"`
  Completed   bool       `gorm:"not null;default:false;column:completed" json:"completed"`
  CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
  JoinedAt    time.Time  `gorm:"not null;column:joined_at" json:"joined_at"`
  CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (ChallengeParticipant) TableName() string {
  return "challenge_participant"
}

func (p *ChallengeParticipant) BeforeCreate(tx *gorm.DB) error {
  if p.ID == uuid.Nil {
    p.ID = uuid.New()
  }
  return nil
}
