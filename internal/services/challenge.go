package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/logger"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/repos"
  "github.com/mhmmdslmnfslnust/Quest-for-Better-sub001/internal/types"
)

type ChallengeInput struct {
  Name         string    `json:"name"`
  Description  string    `json:"description"`
  TargetType   string    `json:"target_type"`
  TargetValue  int       `json:"target_value"`
  PointsReward int       `json:"points_reward"`
  StartsAt     time.Time `json:"starts_at"`
  EndsAt       time.Time `json:"ends_at"`
}

// ChallengeService is a thin derivative of the log/points primitives:
// progress is recomputed from habit_log inside the challenge window, and the
// one-time completion reward flows through the same points path as
// everything else.
type ChallengeService interface {
  Create(ctx context.Context, input ChallengeInput) (*types.Challenge, error)
  ListActive(ctx context.Context) ([]*types.Challenge, error)
  Join(ctx context.Context, userID, challengeID uuid.UUID) (*types.ChallengeParticipant, error)
  ListJoined(ctx context.Context, userID uuid.UUID) ([]*types.ChallengeParticipant, error)
  // RefreshProgress recomputes the participant's progress from the log and,
  // when the target is first reached, marks completion and awards the
  // challenge's points in the same transaction.
  RefreshProgress(ctx context.Context, userID, challengeID uuid.UUID) (*types.ChallengeParticipant, error)
}

type challengeService struct {
  db       *gorm.DB
  log      *logger.Logger
  chRepo   repos.ChallengeRepo
  logRepo  repos.HabitLogRepo
  userRepo repos.UserRepo
  habits   repos.HabitRepo
}

func NewChallengeService(
  db *gorm.DB,
  log *logger.Logger,
  chRepo repos.ChallengeRepo,
  logRepo repos.HabitLogRepo,
  userRepo repos.UserRepo,
  habits repos.HabitRepo,
) ChallengeService {
  return &challengeService{
    db:       db,
    log:      log.With("service", "ChallengeService"),
    chRepo:   chRepo,
    logRepo:  logRepo,
    userRepo: userRepo,
    habits:   habits,
  }
}

func (cs *challengeService) Create(ctx context.Context, input ChallengeInput) (*types.Challenge, error) {
  if input.Name == "" {
    return nil, validationf("challenge name is required")
  }
  if input.TargetValue <= 0 {
    return nil, validationf("challenge target must be positive")
  }
  switch input.TargetType {
  case "":
    input.TargetType = types.ChallengeTargetCompletions
  case types.ChallengeTargetCompletions, types.ChallengeTargetStreak, types.ChallengeTargetPerfectDays:
  default:
    return nil, validationf("unknown challenge target type %q", input.TargetType)
  }
  if !input.EndsAt.After(input.StartsAt) {
    return nil, validationf("challenge must end after it starts")
  }
  challenge := &types.Challenge{
    ID:           uuid.New(),
    Name:         input.Name,
    Description:  input.Description,
    TargetType:   input.TargetType,
    TargetValue:  input.TargetValue,
    PointsReward: input.PointsReward,
    StartsAt:     input.StartsAt,
    EndsAt:       input.EndsAt,
    IsActive:     true,
  }
  if _, err := cs.chRepo.Create(ctx, nil, []*types.Challenge{challenge}); err != nil {
    return nil, fmt.Errorf("failed to create challenge: %w", err)
  }
  return challenge, nil
}

func (cs *challengeService) ListActive(ctx context.Context) ([]*types.Challenge, error) {
  challenges, err := cs.chRepo.ListActive(ctx, nil, time.Now())
  if err != nil {
    return nil, fmt.Errorf("failed to list challenges: %w", err)
  }
  return challenges, nil
}

func (cs *challengeService) Join(ctx context.Context, userID, challengeID uuid.UUID) (*types.ChallengeParticipant, error) {
  var participant *types.ChallengeParticipant
  err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    challenge, err := cs.loadChallenge(ctx, tx, challengeID)
    if err != nil {
      return err
    }
    now := time.Now()
    if !challenge.IsActive || now.Before(challenge.StartsAt) || now.After(challenge.EndsAt) {
      return validationf("challenge %q is not open", challenge.Name)
    }
    p := &types.ChallengeParticipant{
      ID:          uuid.New(),
      ChallengeID: challengeID,
      UserID:      userID,
      JoinedAt:    now,
    }
    created, err := cs.chRepo.CreateParticipant(ctx, tx, p)
    if err != nil {
      return fmt.Errorf("failed to join challenge: %w", err)
    }
    if !created {
      // Already joined; fetch the existing row and treat as success.
      existing, err := cs.chRepo.GetParticipant(ctx, tx, challengeID, userID)
      if err != nil {
        return fmt.Errorf("failed to fetch existing participant: %w", err)
      }
      participant = existing
      return nil
    }
    participant = p
    return nil
  })
  if err != nil {
    return nil, err
  }
  return participant, nil
}

func (cs *challengeService) ListJoined(ctx context.Context, userID uuid.UUID) ([]*types.ChallengeParticipant, error) {
  participants, err := cs.chRepo.ListParticipantsByUser(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("failed to list joined challenges: %w", err)
  }
  return participants, nil
}

func (cs *challengeService) RefreshProgress(ctx context.Context, userID, challengeID uuid.UUID) (*types.ChallengeParticipant, error) {
  var participant *types.ChallengeParticipant
  err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    challenge, err := cs.loadChallenge(ctx, tx, challengeID)
    if err != nil {
      return err
    }
    p, err := cs.chRepo.GetParticipant(ctx, tx, challengeID, userID)
    if err != nil {
      return fmt.Errorf("failed to fetch participant: %w", err)
    }
    if p == nil {
      return notFoundf("participant for challenge %s", challengeID)
    }

    progress, err := cs.computeProgress(ctx, tx, userID, challenge)
    if err != nil {
      return err
    }
    p.Progress = progress
    if !p.Completed && progress >= challenge.TargetValue {
      now := time.Now()
      p.Completed = true
      p.CompletedAt = &now
      if challenge.PointsReward > 0 {
        if _, _, err := applyPointsDelta(ctx, tx, cs.userRepo, userID, challenge.PointsReward); err != nil {
          return err
        }
      }
    }
    if err := cs.chRepo.SaveParticipant(ctx, tx, p); err != nil {
      return fmt.Errorf("failed to save participant: %w", err)
    }
    participant = p
    return nil
  })
  if err != nil {
    return nil, err
  }
  return participant, nil
}

func (cs *challengeService) loadChallenge(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error) {
  challenges, err := cs.chRepo.GetByIDs(ctx, tx, []uuid.UUID{challengeID})
  if err != nil {
    return nil, fmt.Errorf("failed to fetch challenge: %w", err)
  }
  if len(challenges) == 0 {
    return nil, notFoundf("challenge %s", challengeID)
  }
  return challenges[0], nil
}

func (cs *challengeService) computeProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID, challenge *types.Challenge) (int, error) {
  logs, err := cs.logRepo.ListForUserBetween(ctx, tx, userID, challenge.StartsAt, challenge.EndsAt, true)
  if err != nil {
    return 0, fmt.Errorf("failed to load logs for challenge window: %w", err)
  }

  switch challenge.TargetType {
  case types.ChallengeTargetCompletions:
    count := 0
    for _, l := range logs {
      if l.Success {
        count++
      }
    }
    return count, nil

  case types.ChallengeTargetStreak:
    return longestDayRun(successDaySet(logs)), nil

  case types.ChallengeTargetPerfectDays:
    active, err := cs.habits.CountActiveByUser(ctx, tx, userID)
    if err != nil {
      return 0, fmt.Errorf("failed to count active habits: %w", err)
    }
    if active == 0 {
      return 0, nil
    }
    perDay := make(map[string]map[uuid.UUID]struct{})
    for _, l := range logs {
      if !l.Success {
        continue
      }
      key := types.DayKey(l.Date)
      if perDay[key] == nil {
        perDay[key] = make(map[uuid.UUID]struct{})
      }
      perDay[key][l.HabitID] = struct{}{}
    }
    perfect := 0
    for _, habitsDone := range perDay {
      if int64(len(habitsDone)) == active {
        perfect++
      }
    }
    return perfect, nil
  }
  return 0, nil
}

func successDaySet(logs []*types.HabitLog) map[string]bool {
  days := make(map[string]bool, len(logs))
  for _, l := range logs {
    if l.Success {
      days[types.DayKey(l.Date)] = true
    }
  }
  return days
}

// longestDayRun finds the longest run of consecutive calendar days in the
// set.
func longestDayRun(days map[string]bool) int {
  longest := 0
  for key := range days {
    day, err := time.Parse("2006-01-02", key)
    if err != nil {
      continue
    }
    // Only start counting at the beginning of a run.
    if days[types.DayKey(day.AddDate(0, 0, -1))] {
      continue
    }
    run := 0
    for days[types.DayKey(day)] {
      run++
      day = day.AddDate(0, 0, 1)
    }
    if run > longest {
      longest = run
    }
  }
  return longest
}
