package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdugdh24/creatorsync-backend/internal/domain"
	"github.com/gdugdh24/creatorsync-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	creatorRepo repository.CreatorRepository
	editorRepo  repository.EditorRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
	bcryptCost  int
	now         func() time.Time
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	creatorRepo repository.CreatorRepository,
	editorRepo repository.EditorRepository,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthUseCase {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		creatorRepo: creatorRepo,
		editorRepo:  editorRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
	}
}

type RegisterRequest struct {
	Email    string      `json:"email" binding:"required,email,max=255"`
	Password string      `json:"password" binding:"required,min=8,max=72"`
	Role     domain.Role `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ClientInfo is recorded on the session row.
type ClientInfo struct {
	DeviceInfo string
	IPAddress  string
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type MeResponse struct {
	User    *domain.User `json:"user"`
	Profile any          `json:"profile"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// Register creates the account with an immutable role and signs the user in.
// The user and its first session are stored together, so a failed register
// never leaves a taken email behind.
func (uc *AuthUseCase) Register(ctx context.Context, req *RegisterRequest, client ClientInfo) (*AuthResponse, error) {
	if !req.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, domain.ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	resp, session, err := uc.sign(user, client)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.CreateWithSession(ctx, user, session); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()), slog.String("role", string(user.Role)))
	return resp, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, req *LoginRequest, client ClientInfo) (*AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	resp, session, err := uc.sign(user, client)
	if err != nil {
		return nil, err
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return resp, nil
}

// sign issues a JWT for user and the session row holding its hash. The
// caller persists the session.
func (uc *AuthUseCase) sign(user *domain.User, client ClientInfo) (*AuthResponse, *domain.Session, error) {
	now := uc.now()
	expiresAt := now.Add(uc.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"jti":     uuid.NewString(),
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign token: %w", err)
	}

	session := &domain.Session{
		UserID:     user.ID,
		TokenHash:  hashToken(tokenString),
		DeviceInfo: optional(client.DeviceInfo),
		IPAddress:  optional(client.IPAddress),
		ExpiresAt:  expiresAt,
	}
	return &AuthResponse{Token: tokenString, ExpiresAt: expiresAt, User: user}, session, nil
}

// VerifyToken checks the signature, expiry and backing session and returns
// the caller's identity.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, tokenString string) (uuid.UUID, domain.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return uc.jwtSecret, nil
	}, jwt.WithTimeFunc(uc.now))
	if err != nil || !token.Valid {
		return uuid.Nil, "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", domain.ErrInvalidToken
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", domain.ErrInvalidToken
	}
	rawRole, _ := claims["role"].(string)
	role := domain.Role(rawRole)
	if !role.Valid() {
		return uuid.Nil, "", domain.ErrInvalidToken
	}

	session, err := uc.sessionRepo.GetByToken(ctx, hashToken(tokenString))
	if err != nil {
		if domain.KindOf(err) == domain.KindUnavailable {
			return uuid.Nil, "", err
		}
		return uuid.Nil, "", domain.ErrSessionNotFound
	}
	if session.UserID != userID {
		return uuid.Nil, "", domain.ErrInvalidToken
	}
	if uc.now().After(session.ExpiresAt) {
		return uuid.Nil, "", domain.ErrSessionExpired
	}

	return userID, role, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, tokenString string) error {
	return uc.sessionRepo.DeleteByToken(ctx, hashToken(tokenString))
}

// Me returns the user with their role profile, nil when not created yet.
func (uc *AuthUseCase) Me(ctx context.Context, userID uuid.UUID) (*MeResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &MeResponse{User: user}
	switch user.Role {
	case domain.RoleCreator:
		creator, err := uc.creatorRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrCreatorNotFound) {
			return nil, err
		}
		if creator != nil {
			resp.Profile = creator
		}
	case domain.RoleEditor:
		editor, err := uc.editorRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrEditorNotFound) {
			return nil, err
		}
		if editor != nil {
			resp.Profile = editor.Reveal()
		}
	}
	return resp, nil
}

func hashToken(token string) string {
	h := sha256.New()
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
