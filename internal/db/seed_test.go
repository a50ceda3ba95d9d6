package db

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

func newSeedStore(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seeddb_%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&types.Achievement{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return gdb
}

func TestSeedAchievements_IsIdempotent(t *testing.T) {
	gdb := newSeedStore(t)

	if err := SeedAchievements(gdb); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	var first int64
	if err := gdb.Model(&types.Achievement{}).Count(&first).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if first == 0 {
		t.Fatalf("expected a seeded catalog")
	}

	if err := SeedAchievements(gdb); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var second int64
	if err := gdb.Model(&types.Achievement{}).Count(&second).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if first != second {
		t.Fatalf("expected reseeding to be a no-op, %d then %d rows", first, second)
	}
}

func TestSeedAchievements_CoversEveryConditionType(t *testing.T) {
	gdb := newSeedStore(t)
	if err := SeedAchievements(gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var seen []string
	if err := gdb.Model(&types.Achievement{}).Distinct("condition_type").Pluck("condition_type", &seen).Error; err != nil {
		t.Fatalf("pluck: %v", err)
	}
	got := make(map[string]bool, len(seen))
	for _, ct := range seen {
		got[ct] = true
	}
	for _, want := range []string{
		types.ConditionStreak,
		types.ConditionTotalPoints,
		types.ConditionHabitsCompleted,
		types.ConditionHabitsCreated,
		types.ConditionCategoryVariety,
		types.ConditionEarlyBird,
		types.ConditionNightOwl,
		types.ConditionPerfectWeek,
		types.ConditionComeback,
		types.ConditionUserLevel,
		types.ConditionHabitLogs,
		types.ConditionWeekendLogs,
	} {
		if !got[want] {
			t.Fatalf("expected a seeded achievement for %q", want)
		}
	}
}
