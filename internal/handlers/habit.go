package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/services"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type HabitHandler struct {
  habitService services.HabitService
  leaderboard  services.LeaderboardService
}

func NewHabitHandler(habitService services.HabitService, leaderboard services.LeaderboardService) *HabitHandler {
  return &HabitHandler{habitService: habitService, leaderboard: leaderboard}
}

func (hh *HabitHandler) Create(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  var input services.HabitInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  habit, err := hh.habitService.CreateHabit(c.Request.Context(), userID, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"habit": habit})
}

func (hh *HabitHandler) List(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  includeArchived := c.Query("include_archived") == "true"
  habits, err := hh.habitService.ListHabits(c.Request.Context(), userID, includeArchived)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"habits": habits})
}

func (hh *HabitHandler) Get(c *gin.Context) {
  userID, habitID, ok := hh.userAndHabit(c)
  if !ok {
    return
  }
  habit, err := hh.habitService.GetHabit(c.Request.Context(), userID, habitID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"habit": habit})
}

func (hh *HabitHandler) Update(c *gin.Context) {
  userID, habitID, ok := hh.userAndHabit(c)
  if !ok {
    return
  }
  var input services.HabitInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  habit, err := hh.habitService.UpdateHabit(c.Request.Context(), userID, habitID, input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"habit": habit})
}

func (hh *HabitHandler) Archive(c *gin.Context) {
  userID, habitID, ok := hh.userAndHabit(c)
  if !ok {
    return
  }
  if err := hh.habitService.ArchiveHabit(c.Request.Context(), userID, habitID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"status": "archived"})
}

type logRequest struct {
  Date    string `json:"date"`
  Success *bool  `json:"success"`
  Notes   string `json:"notes"`
}

func (hh *HabitHandler) LogCompletion(c *gin.Context) {
  userID, habitID, ok := hh.userAndHabit(c)
  if !ok {
    return
  }
  var req logRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  date := time.Now()
  if req.Date != "" {
    parsed, err := time.Parse("2006-01-02", req.Date)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "bad_request", err)
      return
    }
    date = parsed
  }
  success := true
  if req.Success != nil {
    success = *req.Success
  }
  result, err := hh.habitService.LogCompletion(c.Request.Context(), userID, habitID, date, success, req.Notes)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  // Ranking mirror is best effort and outside the transaction.
  hh.leaderboard.SyncUser(c.Request.Context(), userID, result.TotalPoints)
  RespondOK(c, gin.H{"result": result})
}

func (hh *HabitHandler) ListLogs(c *gin.Context) {
  userID, habitID, ok := hh.userAndHabit(c)
  if !ok {
    return
  }
  var from, to time.Time
  if v := c.Query("from"); v != "" {
    parsed, err := time.Parse("2006-01-02", v)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "bad_request", err)
      return
    }
    from = parsed
  }
  if v := c.Query("to"); v != "" {
    parsed, err := time.Parse("2006-01-02", v)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "bad_request", err)
      return
    }
    to = parsed
  }
  logs, err := hh.habitService.ListLogs(c.Request.Context(), userID, habitID, from, to)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"logs": logs})
}

func (hh *HabitHandler) GetStreak(c *gin.Context) {
  userID, habitID, ok := hh.userAndHabit(c)
  if !ok {
    return
  }
  asOf := time.Now()
  if v := c.Query("as_of"); v != "" {
    parsed, err := time.Parse("2006-01-02", v)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "bad_request", err)
      return
    }
    asOf = parsed
  }
  streak, err := hh.habitService.HabitStreak(c.Request.Context(), userID, habitID, asOf)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"streak": streak, "as_of": types.DayKey(asOf)})
}

func (hh *HabitHandler) GetUserStreak(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  streak, err := hh.habitService.UserStreak(c.Request.Context(), userID, time.Now())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"streak": streak})
}

func (hh *HabitHandler) userAndHabit(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return uuid.Nil, uuid.Nil, false
  }
  habitID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return uuid.Nil, uuid.Nil, false
  }
  return userID, habitID, true
}
