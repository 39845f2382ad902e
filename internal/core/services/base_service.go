package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/moneyflow/internal/apperrors"
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/core/snapshot"
	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// ledgerService is embedded by every service that reads the snapshot or mutates the ledger.
type ledgerService struct {
	BaseService
	session  portssvc.SessionSvc
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// ServiceOption is a functional option shared by the ledger services
type ServiceOption func(*ledgerService)

// WithClock overrides the time source, e.g. to pin the configured time zone.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// WithIDGenerator overrides how new entity ids are generated.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *ledgerService) {
		s.newID = newID
	}
}

// WithValidator replaces the request validator.
func WithValidator(v *validator.Validate) ServiceOption {
	return func(s *ledgerService) {
		s.validate = v
	}
}

func newLedgerService(session portssvc.SessionSvc, options ...ServiceOption) ledgerService {
	s := ledgerService{
		session:  session,
		validate: NewValidator(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, option := range options {
		option(&s)
	}
	return s
}

// NewValidator returns a validator reading the same `binding` tags gin uses,
// so requests built outside HTTP are checked by the same rules.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func (s *ledgerService) snapshot(ctx context.Context, userID string) (*snapshot.Snapshot, error) {
	snap, err := s.session.Snapshot(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger snapshot", slog.String("user_id", userID))
		return nil, err
	}
	return snap, nil
}

// refresh re-reads the collections touched by a mutation before the mutation reports success.
func (s *ledgerService) refresh(ctx context.Context, userID string, cols ...snapshot.Collection) error {
	if _, err := s.session.Refresh(ctx, userID, cols...); err != nil {
		s.LogError(ctx, err, "Failed to refresh snapshot after write",
			slog.String("user_id", userID),
			slog.Any("collections", cols))
		return err
	}
	return nil
}

func (s *ledgerService) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
	}
	return apperrors.Validationf("%s", strings.Join(msgs, "; "))
}

// dateOr returns the requested date or now.
func (s *ledgerService) dateOr(date *time.Time) time.Time {
	if date != nil && !date.IsZero() {
		return *date
	}
	return s.now()
}

func requirePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.Validationf("%s must be greater than zero", field)
	}
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, apperrors.ErrNotFound)
}
