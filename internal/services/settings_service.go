package services

import (
	"context"
	"errors"

	"study/internal/events"
	"study/internal/forms"
	"study/internal/models"
	"study/internal/paths"
	"study/internal/repositories"

	"go.uber.org/zap"
)

const (
	ProfileUpdatedMessage  = "Profile updated."
	PasswordUpdatedMessage = "Password updated."
)

// Outcome tells whether a settings submission changed the account.
type Outcome int

const (
	// OutcomeApplied means the change was written to the account store.
	OutcomeApplied Outcome = iota + 1
	// OutcomeRejected means validation failed and nothing was written.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Notice is a confirmation that must be shown once, on the next request for Path.
type Notice struct {
	Path    string
	Message string
}

// Result is the outcome of a settings submission.
type Result struct {
	Outcome Outcome
	Errors  forms.FieldErrors
	// Notice is set when the confirmation belongs to the request after a redirect.
	Notice *Notice
	// Message is set when the confirmation is shown inline on the same response.
	Message string
}

// Applied reports whether the submission was written.
func (r Result) Applied() bool {
	return r.Outcome == OutcomeApplied
}

func rejected(fieldErrors forms.FieldErrors) Result {
	return Result{Outcome: OutcomeRejected, Errors: fieldErrors}
}

// ProfileView is what the profile settings page renders.
type ProfileView struct {
	Account *models.Account
	Profile forms.ProfileForm
}

// PasswordView is what the password settings page renders.
// The form is always blank so secrets are never echoed back.
type PasswordView struct {
	Account      *models.Account
	PasswordForm forms.PasswordForm
}

// SettingsService implements the account settings workflow.
type SettingsService struct {
	repo      repositories.AccountRepository
	validator *forms.Validator
	publisher events.Publisher
	logger    *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(
	repo repositories.AccountRepository,
	validator *forms.Validator,
	publisher events.Publisher,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *SettingsService) load(ctx context.Context, nickname string) (*models.Account, error) {
	account, err := s.repo.GetByNickname(ctx, nickname)
	if err != nil {
		if !errors.Is(err, repositories.ErrAccountNotFound) {
			s.logger.Error("failed to load account", zap.String("nickname", nickname), zap.Error(err))
		}
		return nil, storeError("load account", err)
	}
	return account, nil
}

// RenderProfileForm returns the account and its profile as an editable form.
func (s *SettingsService) RenderProfileForm(ctx context.Context, nickname string) (ProfileView, error) {
	account, err := s.load(ctx, nickname)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{
		Account: account,
		Profile: forms.NewProfileForm(account.Profile()),
	}, nil
}

// SubmitProfileUpdate validates the form and, when valid, writes the profile
// once. A rejected form is returned unchanged in the view.
func (s *SettingsService) SubmitProfileUpdate(ctx context.Context, nickname string, form forms.ProfileForm) (ProfileView, Result, error) {
	logger := s.logger.With(zap.String("nickname", nickname))

	account, err := s.load(ctx, nickname)
	if err != nil {
		return ProfileView{}, Result{}, err
	}
	view := ProfileView{Account: account, Profile: form}

	if fieldErrors := s.validator.Validate(form); fieldErrors != nil {
		logger.Info("profile update rejected", zap.Any("errors", fieldErrors))
		return view, rejected(fieldErrors), nil
	}

	profile := form.Profile()
	if err := s.repo.UpdateProfile(ctx, nickname, profile); err != nil {
		logger.Error("failed to update profile", zap.Error(err))
		return ProfileView{}, Result{}, storeError("update profile", err)
	}
	account.ApplyProfile(profile)
	view.Profile = forms.NewProfileForm(profile)

	logger.Info("profile updated")
	s.publish(ctx, events.New(events.TypeAccountProfileUpdated, nickname))

	return view, Result{
		Outcome: OutcomeApplied,
		Notice:  &Notice{Path: paths.SettingsProfile, Message: ProfileUpdatedMessage},
	}, nil
}

// RenderPasswordForm returns the account with a blank password form.
func (s *SettingsService) RenderPasswordForm(ctx context.Context, nickname string) (PasswordView, error) {
	account, err := s.load(ctx, nickname)
	if err != nil {
		return PasswordView{}, err
	}
	return PasswordView{Account: account}, nil
}

// SubmitPasswordUpdate checks the new password and its confirmation and,
// when valid, replaces the stored hash. The confirmation is shown inline.
func (s *SettingsService) SubmitPasswordUpdate(ctx context.Context, nickname string, form forms.PasswordForm) (PasswordView, Result, error) {
	logger := s.logger.With(zap.String("nickname", nickname))

	account, err := s.load(ctx, nickname)
	if err != nil {
		return PasswordView{}, Result{}, err
	}
	view := PasswordView{Account: account}

	fieldErrors := s.validator.Validate(form)
	if fieldErrors == nil && len(form.NewPassword) > maxPasswordBytes {
		fieldErrors = forms.FieldErrors{"newPassword": "Password is too long."}
	}
	if fieldErrors != nil {
		// Never log the submitted values.
		logger.Info("password update rejected", zap.Strings("fields", fieldNames(fieldErrors)))
		return view, rejected(fieldErrors), nil
	}

	hash, err := hashPassword(form.NewPassword)
	if err != nil {
		logger.Error("failed to hash password", zap.Error(err))
		return PasswordView{}, Result{}, err
	}
	if err := s.repo.UpdatePassword(ctx, nickname, hash); err != nil {
		logger.Error("failed to update password", zap.Error(err))
		return PasswordView{}, Result{}, storeError("update password", err)
	}
	account.Password = hash

	logger.Info("password updated")
	s.publish(ctx, events.New(events.TypeAccountPasswordUpdated, nickname))

	return view, Result{Outcome: OutcomeApplied, Message: PasswordUpdatedMessage}, nil
}

func (s *SettingsService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish account event",
			zap.String("type", event.Type),
			zap.String("nickname", event.Nickname),
			zap.Error(err),
		)
	}
}

func fieldNames(fieldErrors forms.FieldErrors) []string {
	names := make([]string, 0, len(fieldErrors))
	for name := range fieldErrors {
		names = append(names, name)
	}
	return names
}
