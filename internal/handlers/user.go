package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/requestdata"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/services"
)

type UserHandler struct {
  userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

// currentUserID pulls the authenticated user out of the request context; the
// auth middleware guarantees it on protected routes.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    return uuid.Nil, fmt.Errorf("no authenticated user in request")
  }
  return rd.UserID, nil
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  me, err := uh.userService.GetByID(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}

func (uh *UserHandler) GetStats(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  stats, err := uh.userService.GetStats(c.Request.Context(), userID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"stats": stats})
}

func (uh *UserHandler) DeleteMe(c *gin.Context) {
  userID, err := currentUserID(c)
  if err != nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", err)
    return
  }
  if err := uh.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"status": "deleted"})
}
