package services

import (
  "math"
)

// basePoints maps habit difficulty to the points a successful day is worth
// before any streak scaling.
var basePoints = map[int]int{
  1: 10,
  2: 15,
  3: 25,
  4: 40,
  5: 60,
}

// levelThresholds[i] is the cumulative total_points needed to reach level i+2.
// Past level 10 each further level costs another 1000 points. This curve is
// the single leveling formula; every code path that changes total_points goes
// through LevelForPoints.
var levelThresholds = []int{100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500, 5500}

func BasePoints(difficulty int) int {
  if pts, ok := basePoints[difficulty]; ok {
    return pts
  }
  return basePoints[1]
}

// CompletionPoints scores a successful log. streakDay is the streak length
// including the day being logged; every complete 7-day milestone adds 10% to
// the multiplier, uncapped. Rounding is half away from zero on the scaled
// product (difficulty 3 at streak 10: 25 * 1.1 = 27.5 -> 28).
func CompletionPoints(difficulty, streakDay int) int {
  if streakDay < 0 {
    streakDay = 0
  }
  multiplier := 1.0 + float64(streakDay/7)*0.1
  return int(math.Round(float64(BasePoints(difficulty)) * multiplier))
}

// LevelForPoints recomputes a user's level from cumulative points.
func LevelForPoints(totalPoints int) int {
  level := 1
  for totalPoints >= PointsForNextLevel(level) {
    level++
  }
  return level
}

// PointsForNextLevel returns the cumulative total_points needed to advance
// from the given level.
func PointsForNextLevel(level int) int {
  if level < 1 {
    level = 1
  }
  if level <= len(levelThresholds) {
    return levelThresholds[level-1]
  }
  return levelThresholds[len(levelThresholds)-1] + (level-len(levelThresholds))*1000
}
