package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/services"
)

type ProgressHandler struct {
  progressService services.ProgressService
  leaderboard     services.LeaderboardService
}

func NewProgressHandler(progressService services.ProgressService, leaderboard services.LeaderboardService) *ProgressHandler {
  return &ProgressHandler{progressService: progressService, leaderboard: leaderboard}
}

func (ph *ProgressHandler) Dashboard(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  summary, err := ph.progressService.Dashboard(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"dashboard": summary})
}

func (ph *ProgressHandler) Categories(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  breakdown, err := ph.progressService.Categories(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"categories": breakdown})
}

func (ph *ProgressHandler) Weekdays(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  breakdown, err := ph.progressService.Weekdays(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"weekdays": breakdown})
}

func (ph *ProgressHandler) Hours(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  breakdown, err := ph.progressService.Hours(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"hours": breakdown})
}

func (ph *ProgressHandler) Synergy(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  pairs, err := ph.progressService.Synergy(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"synergy": pairs})
}

func (ph *ProgressHandler) Percentile(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  rank, err := ph.leaderboard.Percentile(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"ranking": rank})
}
