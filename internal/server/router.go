package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/handlers"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/middleware"
)

type RouterConfig struct {
  AuthHandler        *handlers.AuthHandler
  AuthMiddleware     *middleware.AuthMiddleware
  UserHandler        *handlers.UserHandler
  HabitHandler       *handlers.HabitHandler
  AchievementHandler *handlers.AchievementHandler
  ChallengeHandler   *handlers.ChallengeHandler
  ProgressHandler    *handlers.ProgressHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:3000",
      "http://localhost:5173",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  // Public
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/api/register", cfg.AuthHandler.Register)
  router.POST("/api/login", cfg.AuthHandler.Login)

  // Protected
  api := router.Group("/api")
  api.Use(cfg.AuthMiddleware.RequireAuth())

  api.POST("/refresh", cfg.AuthHandler.Refresh)
  api.POST("/logout", cfg.AuthHandler.Logout)

  api.GET("/user", cfg.UserHandler.GetMe)
  api.GET("/user/stats", cfg.UserHandler.GetStats)
  api.DELETE("/user", cfg.UserHandler.DeleteMe)
  api.GET("/user/streak", cfg.HabitHandler.GetUserStreak)

  api.POST("/habits", cfg.HabitHandler.Create)
  api.GET("/habits", cfg.HabitHandler.List)
  api.GET("/habits/:id", cfg.HabitHandler.Get)
  api.PUT("/habits/:id", cfg.HabitHandler.Update)
  api.DELETE("/habits/:id", cfg.HabitHandler.Archive)
  api.POST("/habits/:id/logs", cfg.HabitHandler.LogCompletion)
  api.GET("/habits/:id/logs", cfg.HabitHandler.ListLogs)
  api.GET("/habits/:id/streak", cfg.HabitHandler.GetStreak)

  api.GET("/achievements", cfg.AchievementHandler.Progress)
  api.GET("/achievements/earned", cfg.AchievementHandler.Earned)
  api.POST("/achievements/check", cfg.AchievementHandler.Check)

  api.POST("/challenges", cfg.ChallengeHandler.Create)
  api.GET("/challenges", cfg.ChallengeHandler.ListActive)
  api.GET("/challenges/joined", cfg.ChallengeHandler.ListJoined)
  api.POST("/challenges/:id/join", cfg.ChallengeHandler.Join)
  api.POST("/challenges/:id/progress", cfg.ChallengeHandler.RefreshProgress)

  api.GET("/dashboard", cfg.ProgressHandler.Dashboard)
  api.GET("/analytics/categories", cfg.ProgressHandler.Categories)
  api.GET("/analytics/weekdays", cfg.ProgressHandler.Weekdays)
  api.GET("/analytics/hours", cfg.ProgressHandler.Hours)
  api.GET("/analytics/synergy", cfg.ProgressHandler.Synergy)
  api.GET("/leaderboard/me", cfg.ProgressHandler.Percentile)

  return router
}
