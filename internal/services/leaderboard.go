package services

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/google/uuid"
  goredis "github.com/redis/go-redis/v9"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/repos"
)

type PercentileRank struct {
  TotalPoints int     `json:"total_points"`
  Rank        int64   `json:"rank"`
  TotalUsers  int64   `json:"total_users"`
  Percentile  float64 `json:"percentile"`
}

// LeaderboardService ranks users by total_points. A Redis sorted set is the
// fast path; when Redis is not configured every read falls back to counting
// in the store, so the service is safe to run without it.
type LeaderboardService interface {
  // SyncUser mirrors a user's points into the sorted set. Best effort:
  // failures are logged, never surfaced, since the store remains the source
  // of truth.
  SyncUser(ctx context.Context, userID uuid.UUID, totalPoints int)
  Percentile(ctx context.Context, userID uuid.UUID) (*PercentileRank, error)
}

type leaderboardService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
  rdb      *goredis.Client
  key      string
}

// NewLeaderboardService connects to Redis when REDIS_ADDR is set; otherwise
// the service runs DB-only.
func NewLeaderboardService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) LeaderboardService {
  serviceLog := log.With("service", "LeaderboardService")
  ls := &leaderboardService{
    db:       db,
    log:      serviceLog,
    userRepo: userRepo,
    key:      "leaderboard:points",
  }

  addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
  if addr == "" {
    serviceLog.Info("REDIS_ADDR not set, leaderboard runs on the store only")
    return ls
  }
  rdb := goredis.NewClient(&goredis.Options{
    Addr:        addr,
    DialTimeout: 5 * time.Second,
  })
  ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
  defer cancel()
  if err := rdb.Ping(ctx).Err(); err != nil {
    serviceLog.Warn("Redis ping failed, leaderboard runs on the store only", "error", err)
    _ = rdb.Close()
    return ls
  }
  ls.rdb = rdb
  return ls
}

func (ls *leaderboardService) SyncUser(ctx context.Context, userID uuid.UUID, totalPoints int) {
  if ls.rdb == nil {
    return
  }
  err := ls.rdb.ZAdd(ctx, ls.key, goredis.Z{
    Score:  float64(totalPoints),
    Member: userID.String(),
  }).Err()
  if err != nil {
    ls.log.Warn("Failed to sync leaderboard entry", "user_id", userID, "error", err)
  }
}

func (ls *leaderboardService) Percentile(ctx context.Context, userID uuid.UUID) (*PercentileRank, error) {
  users, err := ls.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch user: %w", err)
  }
  if len(users) == 0 {
    return nil, notFoundf("user %s", userID)
  }
  user := users[0]

  if ls.rdb != nil {
    rank, rankErr := ls.rdb.ZRevRank(ctx, ls.key, userID.String()).Result()
    total, cardErr := ls.rdb.ZCard(ctx, ls.key).Result()
    if rankErr == nil && cardErr == nil && total > 0 {
      return rankResult(user.TotalPoints, rank+1, total), nil
    }
    // Missing member or Redis trouble; the store answers instead.
  }

  total, err := ls.userRepo.CountAll(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("failed to count users: %w", err)
  }
  below, err := ls.userRepo.CountWithFewerPoints(ctx, nil, user.TotalPoints)
  if err != nil {
    return nil, fmt.Errorf("failed to count lower-ranked users: %w", err)
  }
  return rankResult(user.TotalPoints, total-below, total), nil
}

func rankResult(points int, rank, total int64) *PercentileRank {
  r := &PercentileRank{
    TotalPoints: points,
    Rank:        rank,
    TotalUsers:  total,
  }
  if total > 0 {
    r.Percentile = float64(total-rank) / float64(total) * 100
  }
  return r
}
