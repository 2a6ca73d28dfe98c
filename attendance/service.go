package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bokra/hrms/generic"
)

// ErrNotConfigured is returned by a Repository that holds no company settings.
var ErrNotConfigured = errors.New("attendance settings not configured")

// Repository stores the company policy and the branch overrides.
type Repository interface {
	// GetAttendanceSettings returns ErrNotConfigured when nothing was saved.
	GetAttendanceSettings(ctx context.Context) (Settings, error)
	SaveAttendanceSettings(ctx context.Context, s Settings) error

	// GetBranchOverride returns nil, nil when the branch has no override.
	GetBranchOverride(ctx context.Context, branchID generic.BranchID) (*BranchOverride, error)
	SaveBranchOverride(ctx context.Context, o BranchOverride) error
}

// =============================================================================
// SERVICE
// =============================================================================

// Service resolves branch settings and evaluates shifts.
type Service struct {
	Repo     Repository
	Holidays generic.HolidayCalendar
	Logger   *zap.Logger
}

func NewService(repo Repository, holidays generic.HolidayCalendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Repo: repo, Holidays: holidays, Logger: logger}
}

// CompanySettings returns the saved policy or the built-in defaults.
func (s *Service) CompanySettings(ctx context.Context) (Settings, error) {
	settings, err := s.Repo.GetAttendanceSettings(ctx)
	if errors.Is(err, ErrNotConfigured) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get attendance settings: %w", err)
	}
	return settings, nil
}

// UpdateCompanySettings validates and saves the company policy.
func (s *Service) UpdateCompanySettings(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.Repo.SaveAttendanceSettings(ctx, settings); err != nil {
		return fmt.Errorf("save attendance settings: %w", err)
	}
	s.Logger.Info("attendance settings updated",
		zap.Int("grace_minutes", settings.LateGracePeriodMinutes),
		zap.Int("ladder_brackets", len(settings.LateDeductionRules)),
	)
	return nil
}

// BranchSettings returns the effective settings for a branch.
func (s *Service) BranchSettings(ctx context.Context, branchID generic.BranchID) (Settings, error) {
	defaults, err := s.CompanySettings(ctx)
	if err != nil {
		return Settings{}, err
	}
	override, err := s.Repo.GetBranchOverride(ctx, branchID)
	if err != nil {
		return Settings{}, fmt.Errorf("get branch override: %w", err)
	}
	return Resolve(defaults, override), nil
}

// SetBranchOverride saves an override once the merged result validates.
func (s *Service) SetBranchOverride(ctx context.Context, o BranchOverride) error {
	if o.BranchID == "" {
		return &generic.PolicyError{Field: "branch_id", Reason: "required"}
	}
	defaults, err := s.CompanySettings(ctx)
	if err != nil {
		return err
	}
	if err := Resolve(defaults, &o).Validate(); err != nil {
		return err
	}
	if err := s.Repo.SaveBranchOverride(ctx, o); err != nil {
		return fmt.Errorf("save branch override: %w", err)
	}
	s.Logger.Info("branch attendance override saved",
		zap.String("branch_id", string(o.BranchID)),
		zap.Bool("customized", o.Customized),
	)
	return nil
}

// Shift is one worked day to evaluate.
type Shift struct {
	ShiftStart      time.Time
	CheckIn         time.Time
	OvertimeMinutes int
}

// Evaluation is the attendance outcome of a shift.
type Evaluation struct {
	Lateness           Lateness
	DayKind            DayKind
	OvertimeMultiplier decimal.Decimal
	OvertimeCredit     generic.Amount
}

// Evaluate applies the branch's effective settings to a shift.
func (s *Service) Evaluate(ctx context.Context, branchID generic.BranchID, shift Shift) (Evaluation, error) {
	settings, err := s.BranchSettings(ctx, branchID)
	if err != nil {
		return Evaluation{}, err
	}
	day := generic.DayOf(shift.ShiftStart)
	return Evaluation{
		Lateness:           settings.EvaluateCheckIn(shift.ShiftStart, shift.CheckIn),
		DayKind:            settings.Classify(branchID, day, s.Holidays),
		OvertimeMultiplier: settings.OvertimeMultiplier(branchID, day, s.Holidays),
		OvertimeCredit:     settings.OvertimeCredit(shift.OvertimeMinutes, branchID, day, s.Holidays),
	}, nil
}
