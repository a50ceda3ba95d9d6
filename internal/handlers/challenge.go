package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/services"
)

type ChallengeHandler struct {
  challengeService services.ChallengeService
  userService      services.UserService
  leaderboard      services.LeaderboardService
}

func NewChallengeHandler(challengeService services.ChallengeService, userService services.UserService, leaderboard services.LeaderboardService) *ChallengeHandler {
  return &ChallengeHandler{
    challengeService: challengeService,
    userService:      userService,
    leaderboard:      leaderboard,
  }
}

func (ch *ChallengeHandler) Create(c *gin.Context) {
  var input services.ChallengeInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  challenge, err := ch.challengeService.Create(c.Request.Context(), input)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"challenge": challenge})
}

func (ch *ChallengeHandler) ListActive(c *gin.Context) {
  challenges, err := ch.challengeService.ListActive(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"challenges": challenges})
}

func (ch *ChallengeHandler) Join(c *gin.Context) {
  userID, challengeID, ok := ch.userAndChallenge(c)
  if !ok {
    return
  }
  participant, err := ch.challengeService.Join(c.Request.Context(), userID, challengeID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"participant": participant})
}

func (ch *ChallengeHandler) ListJoined(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  participants, err := ch.challengeService.ListJoined(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"participants": participants})
}

func (ch *ChallengeHandler) RefreshProgress(c *gin.Context) {
  userID, challengeID, ok := ch.userAndChallenge(c)
  if !ok {
    return
  }
  participant, err := ch.challengeService.RefreshProgress(c.Request.Context(), userID, challengeID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  if participant.Completed {
    if user, uErr := ch.userService.GetByID(c.Request.Context(), userID); uErr == nil {
      ch.leaderboard.SyncUser(c.Request.Context(), userID, user.TotalPoints)
    }
  }
  RespondOK(c, gin.H{"participant": participant})
}

func (ch *ChallengeHandler) userAndChallenge(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return uuid.Nil, uuid.Nil, false
  }
  challengeID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return uuid.Nil, uuid.Nil, false
  }
  return userID, challengeID, true
}
