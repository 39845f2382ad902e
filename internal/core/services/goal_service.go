package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	"github.com/SscSPs/moneyflow/internal/core/domain"
	portsrepo "github.com/SscSPs/moneyflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/dto"
)

// GoalTopUpCommentPrefix starts the comment of every goal funding expense.
const GoalTopUpCommentPrefix = "Goal: "

type goalService struct {
	ledgerService
	repo portsrepo.GoalWriter
}

// NewGoalService creates a new goal service
func NewGoalService(repo portsrepo.GoalWriter, session portssvc.SessionSvc, options ...ServiceOption) portssvc.GoalSvc {
	return &goalService{ledgerService: newLedgerService(session, options...), repo: repo}
}

var _ portssvc.GoalSvc = (*goalService)(nil)

func (s *goalService) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]domain.Goal{}, snap.Goals...), nil
}

func (s *goalService) CreateGoal(ctx context.Context, req dto.CreateGoalRequest, userID string) (*domain.Goal, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := requirePositive("targetAmount", req.TargetAmount); err != nil {
		return nil, err
	}

	now := s.now()
	goal := domain.Goal{
		GoalID:       s.newID(),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Appearance:   domain.Appearance{Color: req.Color, Icon: req.Icon},
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.repo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save goal", slog.String("goal_id", goal.GoalID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Goals); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, goalID string, req dto.UpdateGoalRequest, userID string) (*domain.Goal, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal, ok := snap.Goal(goalID)
	if !ok {
		return nil, notFound("goal", goalID)
	}

	if req.Name != nil {
		goal.Name = strings.TrimSpace(*req.Name)
	}
	if req.TargetAmount != nil {
		if err := requirePositive("targetAmount", *req.TargetAmount); err != nil {
			return nil, err
		}
		goal.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		if req.Deadline.IsZero() {
			goal.Deadline = nil
		} else {
			goal.Deadline = req.Deadline
		}
	}
	if req.Color != nil {
		goal.Color = *req.Color
	}
	if req.Icon != nil {
		goal.Icon = *req.Icon
	}
	goal.LastUpdatedAt = s.now()

	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to update goal", slog.String("goal_id", goalID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Goals); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *goalService) TopUpGoal(ctx context.Context, goalID string, req dto.GoalTopUpRequest, userID string) (*domain.Goal, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal, ok := snap.Goal(goalID)
	if !ok {
		return nil, notFound("goal", goalID)
	}
	if _, ok := snap.Account(req.AccountID); !ok {
		return nil, apperrors.Validationf("account %s does not exist", req.AccountID)
	}

	now := s.now()
	txn := domain.Transaction{
		TransactionID: s.newID(),
		UserID:        userID,
		AccountID:     req.AccountID,
		Type:          domain.Expense,
		Amount:        req.Amount,
		Comment:       GoalTopUpCommentPrefix + goal.Name,
		Date:          s.dateOr(req.Date),
		CreatedAt:     now,
	}
	if err := s.repo.TopUpGoal(ctx, userID, goalID, req.Amount, txn); err != nil {
		s.LogError(ctx, err, "Failed to top up goal", slog.String("goal_id", goalID))
		return nil, err
	}
	if err := s.refresh(ctx, userID, snapshot.Goals, snapshot.Transactions); err != nil {
		return nil, err
	}

	goal.CurrentAmount = goal.CurrentAmount.Add(req.Amount)
	goal.LastUpdatedAt = now
	s.LogInfo(ctx, "Goal topped up",
		slog.String("goal_id", goalID),
		slog.String("amount", req.Amount.String()))
	return &goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, goalID string, userID string) error {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return err
	}
	if _, ok := snap.Goal(goalID); !ok {
		return notFound("goal", goalID)
	}
	if err := s.repo.DeleteGoal(ctx, userID, goalID); err != nil {
		s.LogError(ctx, err, "Failed to delete goal", slog.String("goal_id", goalID))
		return err
	}
	return s.refresh(ctx, userID, snapshot.Goals)
}
