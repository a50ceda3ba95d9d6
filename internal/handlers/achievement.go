package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/services"
)

type AchievementHandler struct {
  achievementService services.AchievementService
  userService        services.UserService
  leaderboard        services.LeaderboardService
}

func NewAchievementHandler(achievementService services.AchievementService, userService services.UserService, leaderboard services.LeaderboardService) *AchievementHandler {
  return &AchievementHandler{
    achievementService: achievementService,
    userService:        userService,
    leaderboard:        leaderboard,
  }
}

func (ah *AchievementHandler) Progress(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  progress, err := ah.achievementService.Progress(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"achievements": progress})
}

func (ah *AchievementHandler) Earned(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  earned, err := ah.achievementService.ListEarned(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"earned": earned})
}

// Check runs one explicit evaluation pass; the engine never evaluates on its
// own after log writes.
func (ah *AchievementHandler) Check(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  newly, err := ah.achievementService.Evaluate(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  if len(newly) > 0 {
    if user, uErr := ah.userService.GetByID(c.Request.Context(), userID); uErr == nil {
      ah.leaderboard.SyncUser(c.Request.Context(), userID, user.TotalPoints)
    }
  }
  RespondOK(c, gin.H{"newly_awarded": newly})
}
