package services

import (
  "context"
  "fmt"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "golang.org/x/crypto/bcrypt"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/normalization"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/repos"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/requestdata"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/utils"
)

type JWTClaims struct {
  jwt.RegisteredClaims
}

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User) error
  LoginUser(ctx context.Context, email, password string) (string, string, error)
  RefreshUser(ctx context.Context) (string, string, error)
  LogoutUser(ctx context.Context) error
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  userTokenRepo repos.UserTokenRepo
  statsRepo     repos.UserStatsRepo
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  userTokenRepo repos.UserTokenRepo,
  statsRepo repos.UserStatsRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  return &authService{
    db:            db,
    log:           log.With("service", "AuthService"),
    userRepo:      userRepo,
    userTokenRepo: userTokenRepo,
    statsRepo:     statsRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
  utils.NormalizeUserFields(user)
  if err := utils.ValidateRegistration(user); err != nil {
    return validationf("%s", err.Error())
  }
  exists, err := as.userRepo.EmailExists(ctx, nil, user.Email)
  if err != nil {
    return fmt.Errorf("failed to check user email: %w", err)
  }
  if exists {
    return validationf("email is already in use")
  }
  if err := utils.HashPassword(ctx, as.log, user); err != nil {
    return err
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    user.ID = uuid.New()
    user.Level = 1
    if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
      return fmt.Errorf("failed to create user: %w", err)
    }
    stats := &types.UserStats{ID: uuid.New(), UserID: user.ID, LastUpdated: time.Now()}
    if err := as.statsRepo.Upsert(ctx, tx, stats); err != nil {
      return fmt.Errorf("failed to create user stats: %w", err)
    }
    return nil
  })
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
  email = normalization.ParseInputString(email)
  if err := utils.ValidateLogin(email, password); err != nil {
    return "", "", validationf("%s", err.Error())
  }

  users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if err != nil {
    return "", "", fmt.Errorf("failed to fetch user by email: %w", err)
  }
  if len(users) == 0 {
    return "", "", validationf("invalid email or password")
  }
  user := users[0]
  if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
    return "", "", validationf("invalid email or password")
  }

  var accessToken, refreshToken string
  err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
    if err != nil {
      return fmt.Errorf("failed to check user tokens: %w", err)
    }
    staleIDs := make([]uuid.UUID, 0, len(existing))
    for _, tok := range existing {
      staleIDs = append(staleIDs, tok.ID)
    }
    if err := as.userTokenRepo.DeleteByIDs(ctx, tx, staleIDs); err != nil {
      return fmt.Errorf("failed to clear previous session: %w", err)
    }

    tok, err := as.generateAccessToken(user)
    if err != nil {
      return fmt.Errorf("failed to generate access token: %w", err)
    }
    accessToken = tok
    refreshToken = uuid.New().String()
    userToken := &types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: refreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); err != nil {
      return fmt.Errorf("failed to create user token: %w", err)
    }
    return nil
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.RefreshToken == "" {
    return "", "", validationf("no refresh token in request")
  }

  var accessToken, newRefreshToken string
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{rd.RefreshToken})
    if err != nil {
      return fmt.Errorf("failed to fetch refresh token: %w", err)
    }
    if len(found) == 0 {
      return notFoundf("refresh token")
    }
    existing := found[0]
    if existing.ExpiresAt.Before(time.Now()) {
      if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
        return fmt.Errorf("failed to delete expired token: %w", err)
      }
      return validationf("refresh token expired")
    }
    users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
    if err != nil {
      return fmt.Errorf("failed to load user for refresh: %w", err)
    }
    if len(users) == 0 {
      return notFoundf("user for refresh token")
    }
    user := users[0]

    tok, err := as.generateAccessToken(user)
    if err != nil {
      return fmt.Errorf("failed to generate access token: %w", err)
    }
    accessToken = tok
    newRefreshToken = uuid.New().String()
    replacement := &types.UserToken{
      ID:           uuid.New(),
      UserID:       user.ID,
      AccessToken:  accessToken,
      RefreshToken: newRefreshToken,
      ExpiresAt:    time.Now().Add(as.refreshTTL),
    }
    if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{replacement}); err != nil {
      return fmt.Errorf("failed to create replacement token: %w", err)
    }
    if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); err != nil {
      return fmt.Errorf("failed to remove old refresh token: %w", err)
    }
    return nil
  })
  if err != nil {
    return "", "", err
  }
  return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.TokenString == "" {
    return validationf("no access token in request")
  }
  return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    found, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
    if err != nil {
      return fmt.Errorf("failed to find user token: %w", err)
    }
    if len(found) == 0 {
      return nil
    }
    if err := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{found[0].ID}); err != nil {
      return fmt.Errorf("failed to delete user token: %w", err)
    }
    return nil
  })
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("invalid or expired token")
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("invalid user id in token: %w", err)
  }

  var refreshToken string
  found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
  if err != nil {
    return ctx, fmt.Errorf("failed to fetch user token: %w", err)
  }
  if len(found) > 0 {
    refreshToken = found[0].RefreshToken
  }

  rd := &requestdata.RequestData{
    TokenString:  tokenString,
    RefreshToken: refreshToken,
    UserID:       userID,
  }
  return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}
