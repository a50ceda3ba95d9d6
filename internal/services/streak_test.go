package services

import (
	"context"
	"testing"
	"time"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad day literal %q: %v", value, err)
	}
	return d
}

func TestHabitStreak_CountsConsecutiveDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "meditate", 1, "wellness")

	for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05"} {
		env.seedLog(t, habit.ID, day(t, d), true, day(t, d))
	}

	got, err := env.streaks.HabitStreak(ctx, nil, habit.ID, day(t, "2024-03-05"))
	if err != nil {
		t.Fatalf("HabitStreak: %v", err)
	}
	if got != 5 {
		t.Fatalf("expected streak 5, got %d", got)
	}
}

func TestHabitStreak_GapIsNeverBridged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "read", 2, "learning")

	for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-05", "2024-03-06"} {
		env.seedLog(t, habit.ID, day(t, d), true, day(t, d))
	}

	got, err := env.streaks.HabitStreak(ctx, nil, habit.ID, day(t, "2024-03-06"))
	if err != nil {
		t.Fatalf("HabitStreak: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected streak 2 after the gap, got %d", got)
	}
}

func TestHabitStreak_FailedLogOnAsOfDayIsZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "run", 3, "fitness")

	for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"} {
		env.seedLog(t, habit.ID, day(t, d), true, day(t, d))
	}
	env.seedLog(t, habit.ID, day(t, "2024-03-05"), false, day(t, "2024-03-05"))

	got, err := env.streaks.HabitStreak(ctx, nil, habit.ID, day(t, "2024-03-05"))
	if err != nil {
		t.Fatalf("HabitStreak: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected streak 0 on a failed day, got %d", got)
	}
}

func TestHabitStreak_MissingAsOfDayFallsBackToYesterday(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "journal", 1, "wellness")

	for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"} {
		env.seedLog(t, habit.ID, day(t, d), true, day(t, d))
	}

	got, err := env.streaks.HabitStreak(ctx, nil, habit.ID, day(t, "2024-03-05"))
	if err != nil {
		t.Fatalf("HabitStreak: %v", err)
	}
	if got != 4 {
		t.Fatalf("expected streak 4 when today is not yet logged, got %d", got)
	}
}

func TestHabitStreak_NoLogsIsZero(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "stretch", 1, "fitness")

	got, err := env.streaks.HabitStreak(context.Background(), nil, habit.ID, day(t, "2024-03-05"))
	if err != nil {
		t.Fatalf("HabitStreak: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected streak 0 with no logs, got %d", got)
	}
}

func TestUserStreak_AnyActiveHabitQualifiesADay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	a := env.createHabit(t, user.ID, "meditate", 1, "wellness")
	b := env.createHabit(t, user.ID, "read", 2, "learning")

	// Alternating habits still form one unbroken run for the user.
	env.seedLog(t, a.ID, day(t, "2024-03-01"), true, day(t, "2024-03-01"))
	env.seedLog(t, b.ID, day(t, "2024-03-02"), true, day(t, "2024-03-02"))
	env.seedLog(t, a.ID, day(t, "2024-03-03"), true, day(t, "2024-03-03"))

	got, err := env.streaks.UserStreak(ctx, nil, user.ID, day(t, "2024-03-03"))
	if err != nil {
		t.Fatalf("UserStreak: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected user streak 3, got %d", got)
	}
}

func TestUserStreak_ArchivedHabitsDoNotCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "smoke less", 4, "health")

	env.seedLog(t, habit.ID, day(t, "2024-03-01"), true, day(t, "2024-03-01"))
	if err := env.habits.ArchiveHabit(ctx, user.ID, habit.ID); err != nil {
		t.Fatalf("ArchiveHabit: %v", err)
	}

	got, err := env.streaks.UserStreak(ctx, nil, user.ID, day(t, "2024-03-01"))
	if err != nil {
		t.Fatalf("UserStreak: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected archived habit logs to be ignored, got streak %d", got)
	}
}

func TestLongestUserStreak_FindsLongestHistoricalRun(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t)
	habit := env.createHabit(t, user.ID, "write", 2, "learning")

	for _, d := range []string{
		"2024-01-01", "2024-01-02", "2024-01-03",
		"2024-02-10", "2024-02-11", "2024-02-12", "2024-02-13", "2024-02-14",
	} {
		env.seedLog(t, habit.ID, day(t, d), true, day(t, d))
	}

	got, err := env.streaks.LongestUserStreak(context.Background(), nil, user.ID)
	if err != nil {
		t.Fatalf("LongestUserStreak: %v", err)
	}
	if got != 5 {
		t.Fatalf("expected longest streak 5, got %d", got)
	}
}
