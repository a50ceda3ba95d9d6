package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/services"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

// RespondServiceError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a store-level failure for this request.
func RespondServiceError(c *gin.Context, err error) {
  switch {
  case errors.Is(err, services.ErrNotFound):
    RespondError(c, http.StatusNotFound, "not_found", err)
  case errors.Is(err, services.ErrValidation):
    RespondError(c, http.StatusBadRequest, "validation_failed", err)
  case errors.Is(err, services.ErrForbidden):
    RespondError(c, http.StatusForbidden, "forbidden", err)
  default:
    RespondError(c, http.StatusInternalServerError, "internal", err)
  }
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}
