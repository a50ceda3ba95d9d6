package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

func (env *testEnv) seedAchievement(t *testing.T, name, condType string, condValue, reward int, secret bool) *types.Achievement {
	t.Helper()
	a := &types.Achievement{
		ID:             uuid.New(),
		Name:           name,
		ConditionType:  condType,
		ConditionValue: condValue,
		PointsReward:   reward,
		IsSecret:       secret,
	}
	if _, err := env.achRepo.Create(context.Background(), nil, []*types.Achievement{a}); err != nil {
		t.Fatalf("failed to seed achievement %q: %v", name, err)
	}
	return a
}

func (env *testEnv) userPoints(t *testing.T, userID uuid.UUID) (int, int) {
	t.Helper()
	users, err := env.userRepo.GetByIDs(context.Background(), nil, []uuid.UUID{userID})
	if err != nil || len(users) == 0 {
		t.Fatalf("failed to fetch user: %v", err)
	}
	return users[0].TotalPoints, users[0].Level
}

func TestEvaluate_AwardsStreakAchievementWithReward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "meditate", 1, "wellness")
	env.seedAchievement(t, "Three in a Row", types.ConditionStreak, 3, 50, false)

	for offset := 2; offset >= 0; offset-- {
		if _, err := env.habits.LogCompletion(ctx, user.ID, habit.ID, daysAgo(offset), true, ""); err != nil {
			t.Fatalf("LogCompletion: %v", err)
		}
	}

	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 1 || newly[0].Name != "Three in a Row" {
		t.Fatalf("expected one new award, got %v", newly)
	}

	total, _ := env.userPoints(t, user.ID)
	// Three plain logs plus the reward, settled in the same transaction.
	if total != 80 {
		t.Fatalf("expected total 80, got %d", total)
	}
}

func TestEvaluate_AwardsOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "meditate", 1, "wellness")
	env.seedAchievement(t, "First Log", types.ConditionHabitLogs, 1, 25, false)

	if _, err := env.habits.LogCompletion(ctx, user.ID, habit.ID, daysAgo(0), true, ""); err != nil {
		t.Fatalf("LogCompletion: %v", err)
	}
	first, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("first Evaluate: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected one new award, got %d", len(first))
	}
	totalAfterFirst, _ := env.userPoints(t, user.ID)

	second, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected no repeat awards, got %d", len(second))
	}
	totalAfterSecond, _ := env.userPoints(t, user.ID)
	if totalAfterFirst != totalAfterSecond {
		t.Fatalf("expected reward applied once, totals %d then %d", totalAfterFirst, totalAfterSecond)
	}
}

func TestEvaluate_PreexistingAwardIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "meditate", 1, "wellness")
	a := env.seedAchievement(t, "First Log", types.ConditionHabitLogs, 1, 25, false)

	if _, err := env.awardRepo.Create(ctx, nil, &types.UserAchievement{
		ID:            uuid.New(),
		UserID:        user.ID,
		AchievementID: a.ID,
		EarnedAt:      time.Now(),
	}); err != nil {
		t.Fatalf("failed to pre-insert award: %v", err)
	}
	if _, err := env.habits.LogCompletion(ctx, user.ID, habit.ID, daysAgo(0), true, ""); err != nil {
		t.Fatalf("LogCompletion: %v", err)
	}

	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 0 {
		t.Fatalf("expected no awards, got %d", len(newly))
	}
	total, _ := env.userPoints(t, user.ID)
	if total != 10 {
		t.Fatalf("expected no reward on a pre-earned achievement, total %d", total)
	}
}

func TestEvaluate_CountConditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)

	a := env.createHabit(t, user.ID, "meditate", 1, "wellness")
	b := env.createHabit(t, user.ID, "read", 1, "learning")
	env.createHabit(t, user.ID, "run", 1, "fitness")

	// Two successes and one failure: three logs, two completions.
	if _, err := env.habits.LogCompletion(ctx, user.ID, a.ID, daysAgo(1), true, ""); err != nil {
		t.Fatalf("LogCompletion: %v", err)
	}
	if _, err := env.habits.LogCompletion(ctx, user.ID, a.ID, daysAgo(0), true, ""); err != nil {
		t.Fatalf("LogCompletion: %v", err)
	}
	if _, err := env.habits.LogCompletion(ctx, user.ID, b.ID, daysAgo(0), false, ""); err != nil {
		t.Fatalf("LogCompletion: %v", err)
	}

	env.seedAchievement(t, "Collector", types.ConditionHabitsCreated, 3, 0, false)
	env.seedAchievement(t, "Explorer", types.ConditionCategoryVariety, 3, 0, false)
	env.seedAchievement(t, "Scribe", types.ConditionHabitLogs, 3, 0, false)
	env.seedAchievement(t, "Finisher", types.ConditionHabitsCompleted, 2, 0, false)
	env.seedAchievement(t, "Overachiever", types.ConditionHabitsCompleted, 5, 0, false)

	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	got := make(map[string]bool, len(newly))
	for _, a := range newly {
		got[a.Name] = true
	}
	for _, want := range []string{"Collector", "Explorer", "Scribe", "Finisher"} {
		if !got[want] {
			t.Fatalf("expected %q to be awarded, got %v", want, got)
		}
	}
	if got["Overachiever"] {
		t.Fatalf("expected %q to stay unearned below its threshold", "Overachiever")
	}
}

func TestEvaluate_PointsAndLevelConditions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)

	if err := env.userRepo.UpdatePointsAndLevel(ctx, nil, user.ID, 150, LevelForPoints(150)); err != nil {
		t.Fatalf("UpdatePointsAndLevel: %v", err)
	}
	env.seedAchievement(t, "Centurion", types.ConditionTotalPoints, 100, 0, false)
	env.seedAchievement(t, "Level Two", types.ConditionUserLevel, 2, 0, false)
	env.seedAchievement(t, "Level Five", types.ConditionUserLevel, 5, 0, false)

	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 2 {
		t.Fatalf("expected two awards, got %d", len(newly))
	}
}

func TestEvaluate_EarlyBirdAndNightOwl(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "stretch", 1, "fitness")

	dawn := time.Date(2024, 1, 1, 5, 30, 0, 0, time.Local)
	late := time.Date(2024, 1, 1, 23, 10, 0, 0, time.Local)
	env.seedLog(t, habit.ID, daysAgo(2), true, dawn)
	env.seedLog(t, habit.ID, daysAgo(1), true, late)

	env.seedAchievement(t, "Early Bird", types.ConditionEarlyBird, 1, 0, false)
	env.seedAchievement(t, "Night Owl", types.ConditionNightOwl, 1, 0, false)

	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 2 {
		t.Fatalf("expected both time-of-day awards, got %d", len(newly))
	}
}

func TestEvaluate_TimeOfDayWindowIsSevenCalendarDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "stretch", 1, "fitness")
	env.seedAchievement(t, "Early Bird", types.ConditionEarlyBird, 1, 0, false)

	dawn := time.Date(2024, 1, 1, 5, 0, 0, 0, time.Local)

	// Eight days back: outside the window (today plus the six days before).
	env.seedLog(t, habit.ID, daysAgo(7), true, dawn)
	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 0 {
		t.Fatalf("expected an 8-day-old log to fall outside the window, got %v", newly)
	}

	// Seventh day of the window still counts.
	env.seedLog(t, habit.ID, daysAgo(6), true, dawn)
	newly, err = env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 1 {
		t.Fatalf("expected a 7-day-old log to count, got %d awards", len(newly))
	}
}

func TestEvaluate_ComebackAfterAGap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "swim", 2, "fitness")

	env.seedLog(t, habit.ID, daysAgo(20), true, daysAgo(20))
	env.seedLog(t, habit.ID, daysAgo(5), true, daysAgo(5))
	env.seedAchievement(t, "Comeback Kid", types.ConditionComeback, 1, 0, true)

	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 1 || newly[0].Name != "Comeback Kid" {
		t.Fatalf("expected the comeback award, got %v", newly)
	}
}

func TestEvaluate_WeekendSuccesses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "hike", 2, "fitness")

	seeded := 0
	for offset := 0; offset < 14 && seeded < 2; offset++ {
		d := daysAgo(offset)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			env.seedLog(t, habit.ID, d, true, d)
			seeded++
		}
	}
	env.seedAchievement(t, "Weekend Warrior", types.ConditionWeekendLogs, 2, 0, false)

	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 1 {
		t.Fatalf("expected the weekend award, got %d", len(newly))
	}
}

func TestEvaluate_PerfectWeekNeedsEveryActiveHabit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	a := env.createHabit(t, user.ID, "meditate", 1, "wellness")
	b := env.createHabit(t, user.ID, "read", 1, "learning")
	env.seedAchievement(t, "Perfect Week", types.ConditionPerfectWeek, 7, 100, false)

	// One habit runs the whole week; the other only shows up on the last day.
	for offset := 6; offset >= 0; offset-- {
		if _, err := env.habits.LogCompletion(ctx, user.ID, a.ID, daysAgo(offset), true, ""); err != nil {
			t.Fatalf("LogCompletion: %v", err)
		}
	}
	if _, err := env.habits.LogCompletion(ctx, user.ID, b.ID, daysAgo(0), true, ""); err != nil {
		t.Fatalf("LogCompletion: %v", err)
	}

	newly, err := env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 0 {
		t.Fatalf("expected no perfect week with a partial day, got %v", newly)
	}

	// Fill in the second habit for the rest of the week.
	for offset := 6; offset >= 1; offset-- {
		if _, err := env.habits.LogCompletion(ctx, user.ID, b.ID, daysAgo(offset), true, ""); err != nil {
			t.Fatalf("LogCompletion: %v", err)
		}
	}
	newly, err = env.achievements.Evaluate(ctx, user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 1 || newly[0].Name != "Perfect Week" {
		t.Fatalf("expected the perfect week award, got %v", newly)
	}
}

func TestEvaluate_PerfectWeekImpossibleWithoutHabits(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	env.seedAchievement(t, "Perfect Week", types.ConditionPerfectWeek, 7, 100, false)

	newly, err := env.achievements.Evaluate(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(newly) != 0 {
		t.Fatalf("expected no awards for a user with no habits, got %d", len(newly))
	}
}

func TestProgress_CapsCurrentAndHidesSecrets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "meditate", 1, "wellness")

	for offset := 4; offset >= 0; offset-- {
		if _, err := env.habits.LogCompletion(ctx, user.ID, habit.ID, daysAgo(offset), true, ""); err != nil {
			t.Fatalf("LogCompletion: %v", err)
		}
	}

	env.seedAchievement(t, "Week Streak", types.ConditionStreak, 7, 0, false)
	env.seedAchievement(t, "Two Logs", types.ConditionHabitLogs, 2, 10, false)
	env.seedAchievement(t, "Hidden Gem", types.ConditionTotalPoints, 99999, 0, true)

	if _, err := env.achievements.Evaluate(ctx, user.ID); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	progress, err := env.achievements.Progress(ctx, user.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}

	byName := make(map[string]*AchievementProgress, len(progress))
	for _, p := range progress {
		byName[p.Achievement.Name] = p
	}
	if _, visible := byName["Hidden Gem"]; visible {
		t.Fatalf("expected unearned secret achievement to be hidden")
	}
	ws := byName["Week Streak"]
	if ws == nil || ws.IsEarned || ws.Current != 5 || ws.Target != 7 {
		t.Fatalf("unexpected streak progress: %+v", ws)
	}
	tl := byName["Two Logs"]
	if tl == nil || !tl.IsEarned || tl.Current != 2 || tl.EarnedAt == nil {
		t.Fatalf("unexpected earned progress: %+v", tl)
	}
}

func TestListEarned_AttachesDefinitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "meditate", 1, "wellness")
	env.seedAchievement(t, "First Log", types.ConditionHabitLogs, 1, 5, false)

	if _, err := env.habits.LogCompletion(ctx, user.ID, habit.ID, daysAgo(0), true, ""); err != nil {
		t.Fatalf("LogCompletion: %v", err)
	}
	if _, err := env.achievements.Evaluate(ctx, user.ID); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	earned, err := env.achievements.ListEarned(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListEarned: %v", err)
	}
	if len(earned) != 1 {
		t.Fatalf("expected one earned row, got %d", len(earned))
	}
	if earned[0].Achievement == nil || earned[0].Achievement.Name != "First Log" {
		t.Fatalf("expected the definition attached, got %+v", earned[0])
	}
}
