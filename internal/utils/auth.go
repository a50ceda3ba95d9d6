package utils

import (
  "context"
  "fmt"

  "golang.org/x/crypto/bcrypt"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/normalization"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

func ValidateRegistration(user *types.User) error {
  if user == nil {
    return fmt.Errorf("no user given, cannot proceed with registration")
  }
  if user.Email == "" {
    return fmt.Errorf("an email is required to register")
  }
  if user.Password == "" {
    return fmt.Errorf("a password is required to register")
  }
  if user.FirstName == "" {
    return fmt.Errorf("a first name is required to register")
  }
  return nil
}

func ValidateLogin(email, password string) error {
  if email == "" {
    return fmt.Errorf("email is required to login")
  }
  if password == "" {
    return fmt.Errorf("password is required to login")
  }
  return nil
}

func HashPassword(ctx context.Context, log *logger.Logger, user *types.User) error {
  hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if err != nil {
    if log != nil {
      log.Warn("Failed to hash password", "error", err)
    }
    return fmt.Errorf("failed to hash password")
  }
  user.Password = string(hashedPassword)
  return nil
}

func NormalizeUserFields(user *types.User) {
  user.Email = normalization.ParseInputString(user.Email)
  user.FirstName = normalization.TrimInputString(user.FirstName)
  user.LastName = normalization.TrimInputString(user.LastName)
}
