package main

import (
  "fmt"
  "os"
  "time"

  "github.com/joho/godotenv"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/db"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/handlers"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/middleware"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/repos"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/server"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/services"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/utils"
)

func main() {
  _ = godotenv.Load()

  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Fatal("Postgres init failed", "error", err)
  }
  if err := postgresService.AutoMigrateAll(); err != nil {
    log.Fatal("Postgres auto migration failed", "error", err)
  }
  if err := postgresService.SeedAchievements(); err != nil {
    log.Warn("Achievement seeding failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  habitRepo := repos.NewHabitRepo(thePG, log)
  habitLogRepo := repos.NewHabitLogRepo(thePG, log)
  userStatsRepo := repos.NewUserStatsRepo(thePG, log)
  achievementRepo := repos.NewAchievementRepo(thePG, log)
  userAchievementRepo := repos.NewUserAchievementRepo(thePG, log)
  challengeRepo := repos.NewChallengeRepo(thePG, log)

  // Services
  streakService := services.NewStreakService(thePG, log, habitLogRepo)
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, userStatsRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo, userStatsRepo, streakService)
  habitService := services.NewHabitService(thePG, log, habitRepo, habitLogRepo, userRepo, userStatsRepo, streakService)
  achievementService := services.NewAchievementService(thePG, log, achievementRepo, userAchievementRepo, habitRepo, habitLogRepo, userRepo, streakService)
  challengeService := services.NewChallengeService(thePG, log, challengeRepo, habitLogRepo, userRepo, habitRepo)
  progressService := services.NewProgressService(thePG, log, userRepo, habitRepo, habitLogRepo, userAchievementRepo, streakService)
  leaderboardService := services.NewLeaderboardService(thePG, log, userRepo)

  // Handlers
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  habitHandler := handlers.NewHabitHandler(habitService, leaderboardService)
  achievementHandler := handlers.NewAchievementHandler(achievementService, userService, leaderboardService)
  challengeHandler := handlers.NewChallengeHandler(challengeService, userService, leaderboardService)
  progressHandler := handlers.NewProgressHandler(progressService, leaderboardService)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  router := server.NewRouter(server.RouterConfig{
    AuthHandler:        authHandler,
    AuthMiddleware:     authMiddleware,
    UserHandler:        userHandler,
    HabitHandler:       habitHandler,
    AchievementHandler: achievementHandler,
    ChallengeHandler:   challengeHandler,
    ProgressHandler:    progressHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Fatal("Server failed", "error", err)
  }
}
