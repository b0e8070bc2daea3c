package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"study/internal/events"
	"study/internal/forms"
	"study/internal/models"
	"study/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input beyond this many bytes.
const maxPasswordBytes = 72

// AccountService handles sign-up, login and access tokens.
type AccountService struct {
	repo      repositories.AccountRepository
	validator *forms.Validator
	publisher events.Publisher
	logger    *zap.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	repo repositories.AccountRepository,
	validator *forms.Validator,
	publisher events.Publisher,
	logger *zap.Logger,
	jwtSecret string,
	tokenTTL time.Duration,
) *AccountService {
	return &AccountService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		logger:    logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// SignUp validates the form, hashes the password and stores a new account.
// Field errors are returned for invalid input and already taken names.
func (s *AccountService) SignUp(ctx context.Context, form forms.SignUpForm) (*models.Account, forms.FieldErrors, error) {
	form.Normalize()
	logger := s.logger.With(zap.String("nickname", form.Nickname))

	if fieldErrors := s.validator.Validate(form); fieldErrors != nil {
		logger.Info("sign-up rejected", zap.Any("errors", fieldErrors))
		return nil, fieldErrors, nil
	}
	if len(form.Password) > maxPasswordBytes {
		return nil, forms.FieldErrors{"password": "Password is too long."}, nil
	}

	if existing, err := s.repo.GetByNickname(ctx, form.Nickname); err == nil && existing != nil {
		return nil, forms.FieldErrors{"nickname": fmt.Sprintf("The nickname '%s' is already taken.", form.Nickname)}, nil
	} else if err != nil && !errors.Is(err, repositories.ErrAccountNotFound) {
		return nil, nil, storeError("find account by nickname", err)
	}
	if existing, err := s.repo.GetByEmail(ctx, form.Email); err == nil && existing != nil {
		return nil, forms.FieldErrors{"email": fmt.Sprintf("The email '%s' is already registered.", form.Email)}, nil
	} else if err != nil && !errors.Is(err, repositories.ErrAccountNotFound) {
		return nil, nil, storeError("find account by email", err)
	}

	hash, err := hashPassword(form.Password)
	if err != nil {
		return nil, nil, err
	}

	account := &models.Account{
		Nickname: form.Nickname,
		Email:    form.Email,
		Password: hash,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrDuplicateAccount) {
			return nil, nil, err
		}
		logger.Error("failed to create account", zap.Error(err))
		return nil, nil, storeError("create account", err)
	}

	logger.Info("account created", zap.String("account_id", account.ID))
	s.publish(ctx, events.New(events.TypeAccountCreated, account.Nickname))
	return account, nil, nil
}

// Authenticate checks a nickname-or-email and password pair.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)

	var (
		account *models.Account
		err     error
	)
	if strings.Contains(username, "@") {
		account, err = s.repo.GetByEmail(ctx, strings.ToLower(username))
	} else {
		account, err = s.repo.GetByNickname(ctx, username)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeError("find account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// Login authenticates the user and returns a signed access token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.IssueToken(account)
}

// IssueToken signs an HS256 token naming the account.
func (s *AccountService) IssueToken(account *models.Account) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": account.ID,
		"nickname":   account.Nickname,
		"exp":        now.Add(s.tokenTTL).Unix(),
		"iat":        now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a token, returning its claims.
func (s *AccountService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if nickname, _ := claims["nickname"].(string); nickname == "" {
		return nil, fmt.Errorf("invalid token: missing nickname")
	}
	return claims, nil
}

// TokenTTL is how long issued tokens stay valid.
func (s *AccountService) TokenTTL() time.Duration {
	return s.tokenTTL
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish account event",
			zap.String("type", event.Type),
			zap.String("nickname", event.Nickname),
			zap.Error(err),
		)
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
