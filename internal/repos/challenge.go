package repos

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type ChallengeRepo interface {
  Create(ctx context.Context, tx *gorm.DB, challenges []*types.Challenge) ([]*types.Challenge, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, challengeIDs []uuid.UUID) ([]*types.Challenge, error)
  ListActive(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Challenge, error)
  // CreateParticipant inserts with ON CONFLICT DO NOTHING on the
  // (challenge, user) pair; returns false when the membership already exists.
  CreateParticipant(ctx context.Context, tx *gorm.DB, participant *types.ChallengeParticipant) (bool, error)
  GetParticipant(ctx context.Context, tx *gorm.DB, challengeID, userID uuid.UUID) (*types.ChallengeParticipant, error)
  ListParticipantsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChallengeParticipant, error)
  SaveParticipant(ctx context.Context, tx *gorm.DB, participant *types.ChallengeParticipant) error
}

type challengeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
  return &challengeRepo{db: db, log: baseLog.With("repo", "ChallengeRepo")}
}

func (cr *challengeRepo) handle(tx *gorm.DB) *gorm.DB {
  if tx != nil {
    return tx
  }
  return cr.db
}

func (cr *challengeRepo) Create(ctx context.Context, tx *gorm.DB, challenges []*types.Challenge) ([]*types.Challenge, error) {
  if len(challenges) == 0 {
    return []*types.Challenge{}, nil
  }
  if err := cr.handle(tx).WithContext(ctx).Create(&challenges).Error; err != nil {
    return nil, err
  }
  return challenges, nil
}

func (cr *challengeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, challengeIDs []uuid.UUID) ([]*types.Challenge, error) {
  var results []*types.Challenge
  if len(challengeIDs) == 0 {
    return results, nil
  }
  if err := cr.handle(tx).WithContext(ctx).
    Where("id IN ?", challengeIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *challengeRepo) ListActive(ctx context.Context, tx *gorm.DB, now time.Time) ([]*types.Challenge, error) {
  var results []*types.Challenge
  if err := cr.handle(tx).WithContext(ctx).
    Where("is_active = ? AND starts_at <= ? AND ends_at >= ?", true, now, now).
    Order("ends_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *challengeRepo) CreateParticipant(ctx context.Context, tx *gorm.DB, participant *types.ChallengeParticipant) (bool, error) {
  result := cr.handle(tx).WithContext(ctx).Clauses(clause.OnConflict{
    Columns:   []clause.Column{{Name: "challenge_id"}, {Name: "user_id"}},
    DoNothing: true,
  }).Create(participant)
  if result.Error != nil {
    return false, result.Error
  }
  return result.RowsAffected > 0, nil
}

func (cr *challengeRepo) GetParticipant(ctx context.Context, tx *gorm.DB, challengeID, userID uuid.UUID) (*types.ChallengeParticipant, error) {
  var result types.ChallengeParticipant
  err := cr.handle(tx).WithContext(ctx).
    Where("challenge_id = ? AND user_id = ?", challengeID, userID).
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}

func (cr *challengeRepo) ListParticipantsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChallengeParticipant, error) {
  var results []*types.ChallengeParticipant
  if err := cr.handle(tx).WithContext(ctx).
    Preload("Challenge").
    Where("user_id = ?", userID).
    Order("joined_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *challengeRepo) SaveParticipant(ctx context.Context, tx *gorm.DB, participant *types.ChallengeParticipant) error {
  return cr.handle(tx).WithContext(ctx).Save(participant).Error
}
