package db

import (
  "fmt"

  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

// defaultAchievements is the catalog inserted on first boot. Inserts are
// keyed on name so reruns are no-ops and operators can still edit rows.
var defaultAchievements = []types.Achievement{
  {Name: "First Step", Description: "Complete a habit for the first time", Icon: "👣", ConditionType: types.ConditionHabitsCompleted, ConditionValue: 1, PointsReward: 10},
  {Name: "Getting Started", Description: "Complete habits 10 times", Icon: "🌱", ConditionType: types.ConditionHabitsCompleted, ConditionValue: 10, PointsReward: 25},
  {Name: "Centurion", Description: "Complete habits 100 times", Icon: "💯", ConditionType: types.ConditionHabitsCompleted, ConditionValue: 100, PointsReward: 150},
  {Name: "Week Warrior", Description: "Keep a 7 day streak", Icon: "🔥", ConditionType: types.ConditionStreak, ConditionValue: 7, PointsReward: 50},
  {Name: "Fortnight Fighter", Description: "Keep a 14 day streak", Icon: "⚔️", ConditionType: types.ConditionStreak, ConditionValue: 14, PointsReward: 100},
  {Name: "Monthly Master", Description: "Keep a 30 day streak", Icon: "🏆", ConditionType: types.ConditionStreak, ConditionValue: 30, PointsReward: 250},
  {Name: "Point Collector", Description: "Earn 300 points", Icon: "⭐", ConditionType: types.ConditionTotalPoints, ConditionValue: 300, PointsReward: 30},
  {Name: "Point Hoarder", Description: "Earn 1000 points", Icon: "🌟", ConditionType: types.ConditionTotalPoints, ConditionValue: 1000, PointsReward: 100},
  {Name: "Habit Architect", Description: "Have 5 active habits", Icon: "📐", ConditionType: types.ConditionHabitsCreated, ConditionValue: 5, PointsReward: 40},
  {Name: "Renaissance Soul", Description: "Track habits in 3 different categories", Icon: "🎨", ConditionType: types.ConditionCategoryVariety, ConditionValue: 3, PointsReward: 40},
  {Name: "Early Bird", Description: "Log a success before 7am", Icon: "🌅", ConditionType: types.ConditionEarlyBird, ConditionValue: 1, PointsReward: 20},
  {Name: "Night Owl", Description: "Log a success after 10pm", Icon: "🦉", ConditionType: types.ConditionNightOwl, ConditionValue: 1, PointsReward: 20},
  {Name: "Perfect Week", Description: "Succeed at every active habit for 7 straight days", Icon: "✨", ConditionType: types.ConditionPerfectWeek, ConditionValue: 7, PointsReward: 200},
  {Name: "The Comeback", Description: "Return to a habit after a week away", Icon: "💪", ConditionType: types.ConditionComeback, ConditionValue: 1, PointsReward: 30, IsSecret: true},
  {Name: "Level Five", Description: "Reach level 5", Icon: "🎖️", ConditionType: types.ConditionUserLevel, ConditionValue: 5, PointsReward: 75},
  {Name: "Logkeeper", Description: "Write 50 log entries", Icon: "📜", ConditionType: types.ConditionHabitLogs, ConditionValue: 50, PointsReward: 50},
  {Name: "Weekend Warrior", Description: "Succeed 10 times on weekends", Icon: "🛡️", ConditionType: types.ConditionWeekendLogs, ConditionValue: 10, PointsReward: 60, IsSecret: true},
}

func (s *PostgresService) SeedAchievements() error {
  return SeedAchievements(s.db)
}

func SeedAchievements(gdb *gorm.DB) error {
  rows := make([]types.Achievement, len(defaultAchievements))
  copy(rows, defaultAchievements)
  if err := gdb.Clauses(clause.OnConflict{
    Columns:   []clause.Column{{Name: "name"}},
    DoNothing: true,
  }).Create(&rows).Error; err != nil {
    return fmt.Errorf("failed to seed achievements: %w", err)
  }
  return nil
}
