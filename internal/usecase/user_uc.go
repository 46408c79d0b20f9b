package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/domain"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"github.com/mujahidkhanofficial/medixra-sub000/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EmailTakenMessage is the SignUpResult error text for an already registered address.
const EmailTakenMessage = "email already registered"

// Claims are the JWT claims of a login token.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserUsecase registers and authenticates marketplace users.
type UserUsecase struct {
	store     *store.RecordStore
	pub       domain.EventPublisher
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *logger.Logger
	now       Clock
}

func NewUserUsecase(s *store.RecordStore, pub domain.EventPublisher, jwtSecret string, tokenTTL time.Duration, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		store:     s,
		pub:       orPublisher(pub),
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    log.Named("UserUsecase"),
		now:       systemClock,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a user. An address that is already registered, compared
// case-insensitively, yields an unsuccessful result rather than an error.
func (uc *UserUsecase) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.SignUpResult, error) {
	email := normalizeEmail(in.Email)
	uc.logger.Info("Registering user", zap.String("email", email))

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleBuyer
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hashedPassword),
		Role:         role,
		VendorID:     in.VendorID,
		CreatedAt:    uc.now(),
	}

	taken := false
	_, err = store.Update(ctx, uc.store, store.Users, func(items []domain.User) ([]domain.User, error) {
		taken = slices.ContainsFunc(items, func(u domain.User) bool { return normalizeEmail(u.Email) == email })
		if taken {
			return nil, store.ErrNoChange
		}
		return append(items, user), nil
	})
	if err != nil {
		uc.logger.Error("Failed to save user", zap.Error(err))
		return nil, err
	}
	if taken {
		uc.logger.Warn("Email already registered", zap.String("email", email))
		return &domain.SignUpResult{Success: false, Error: EmailTakenMessage}, nil
	}

	publishEvent(ctx, uc.pub, uc.logger, domain.SubjectUserRegistered, map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	}, zap.String("user_id", user.ID))

	public := user.Public()
	return &domain.SignUpResult{Success: true, User: &public}, nil
}

// Login checks the credentials and issues a signed token.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = normalizeEmail(email)
	users, err := store.Load[domain.User](ctx, uc.store, store.Users)
	if err != nil {
		uc.logger.Error("Failed to load users", zap.Error(err))
		return nil, err
	}
	i := slices.IndexFunc(users, func(u domain.User) bool { return normalizeEmail(u.Email) == email })
	if i < 0 {
		return nil, domain.ErrInvalidCredentials
	}
	user := users[i]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.logger.Warn("Login failed", zap.String("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	now := uc.now()
	expiresAt := now.Add(uc.tokenTTL)
	claims := &Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		uc.logger.Error("Failed to sign token", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("User logged in", zap.String("user_id", user.ID))
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

// ParseToken validates a token issued by Login.
func (uc *UserUsecase) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return uc.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(uc.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token expired", domain.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// GetByID returns the user without its password hash, or nil, nil.
func (uc *UserUsecase) GetByID(ctx context.Context, id string) (*domain.User, error) {
	users, err := store.Load[domain.User](ctx, uc.store, store.Users)
	if err != nil {
		uc.logger.Error("Failed to load users", zap.Error(err))
		return nil, err
	}
	i := slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id })
	if i < 0 {
		return nil, nil
	}
	u := users[i].Public()
	return &u, nil
}
