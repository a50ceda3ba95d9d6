package services

import "testing"

func TestBasePoints_PerDifficulty(t *testing.T) {
	cases := []struct {
		difficulty int
		want       int
	}{
		{1, 10},
		{2, 15},
		{3, 25},
		{4, 40},
		{5, 60},
	}
	for _, c := range cases {
		if got := BasePoints(c.difficulty); got != c.want {
			t.Fatalf("BasePoints(%d) = %d, want %d", c.difficulty, got, c.want)
		}
	}
}

func TestBasePoints_OutOfRangeFallsBackToEasiest(t *testing.T) {
	if got := BasePoints(0); got != 10 {
		t.Fatalf("BasePoints(0) = %d, want 10", got)
	}
	if got := BasePoints(9); got != 10 {
		t.Fatalf("BasePoints(9) = %d, want 10", got)
	}
}

func TestCompletionPoints_StreakMultiplier(t *testing.T) {
	cases := []struct {
		name       string
		difficulty int
		streakDay  int
		want       int
	}{
		{"no streak bonus below a week", 1, 6, 10},
		{"first milestone at day 7", 1, 7, 11},
		{"half points round away from zero", 3, 10, 28}, // 25 * 1.1 = 27.5
		{"second milestone at day 14", 1, 14, 12},
		{"difficulty five with long streak", 5, 21, 78}, // 60 * 1.3
		{"zero streak day", 4, 0, 40},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CompletionPoints(c.difficulty, c.streakDay); got != c.want {
				t.Fatalf("CompletionPoints(%d, %d) = %d, want %d", c.difficulty, c.streakDay, got, c.want)
			}
		})
	}
}

func TestLevelForPoints_CurveBoundaries(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{599, 3},
		{600, 4},
		{1000, 5},
		{5499, 10},
		{5500, 11},
		{6499, 11},
		{6500, 12},
		{7500, 13},
	}
	for _, c := range cases {
		if got := LevelForPoints(c.points); got != c.want {
			t.Fatalf("LevelForPoints(%d) = %d, want %d", c.points, got, c.want)
		}
	}
}

func TestPointsForNextLevel_TieredThenLinear(t *testing.T) {
	cases := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 300},
		{3, 600},
		{9, 4500},
		{10, 5500},
		{11, 6500},
		{12, 7500},
	}
	for _, c := range cases {
		if got := PointsForNextLevel(c.level); got != c.want {
			t.Fatalf("PointsForNextLevel(%d) = %d, want %d", c.level, got, c.want)
		}
	}
}
