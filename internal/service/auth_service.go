package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/caffeinepub/total-amount-calculator-app/internal/config"
	"github.com/caffeinepub/total-amount-calculator-app/internal/dto"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService verifies per-branch logins and maintains the process-wide
// active-branch pointer. The pointer exists only for hydration and the
// legacy migration; request handling always resolves the branch from the
// token, never from the pointer.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
	// ActiveBranch returns the branch set by the last successful login, or
	// "" when logged out.
	ActiveBranch() string
}

type authService struct {
	cfg         *config.Config
	kv          localstore.KV
	migration   *localstore.MigrationGate
	credentials map[string]string // lowercase username → bcrypt hash
	usernames   map[string]string // lowercase username → canonical form
}

func NewAuthService(cfg *config.Config, kv localstore.KV, migration *localstore.MigrationGate) AuthService {
	s := &authService{
		cfg:         cfg,
		kv:          kv,
		migration:   migration,
		credentials: make(map[string]string),
		usernames:   make(map[string]string),
	}
	for _, pair := range strings.Split(cfg.BranchCredentials, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, hash, ok := strings.Cut(pair, ":")
		if !ok {
			log.Warn().Str("entry", name).Msg("malformed BRANCH_CREDENTIALS entry, skipping")
			continue
		}
		s.credentials[strings.ToLower(name)] = hash
		s.usernames[strings.ToLower(name)] = name
	}
	return s
}

// Login normalizes the inputs (both trimmed, username compared
// case-insensitively), verifies the bcrypt hash, runs the one-time legacy
// migration for the branch, sets the active-branch pointer, and issues a
// JWT carrying the branch claim.
func (s *authService) Login(_ context.Context, username, password string) (*dto.LoginResponse, error) {
	key := strings.ToLower(strings.TrimSpace(username))
	hash, ok := s.credentials[key]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(password))); err != nil {
		return nil, ErrInvalidCredentials
	}
	branch := s.usernames[key]

	// Migration failures do not block login: the marker stays unset and the
	// next login retries the copy.
	if err := s.migration.Migrate(branch); err != nil {
		log.Error().Err(err).Str("branch", branch).Msg("legacy migration failed")
	}

	if err := s.kv.Set(localstore.ActiveBranchKey, branch); err != nil {
		log.Error().Err(err).Str("branch", branch).Msg("failed to persist active branch")
	}

	expiry := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	claims := jwt.MapClaims{
		"branch": branch,
		"exp":    time.Now().Add(expiry).Unix(),
		"iat":    time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(expiry.Seconds()),
		Branch:      branch,
	}, nil
}

// Logout clears the active-branch pointer. Branch-scoped data is never
// touched — switching branches must not destroy other branches' stores.
func (s *authService) Logout(_ context.Context) error {
	return s.kv.Delete(localstore.ActiveBranchKey)
}

func (s *authService) ActiveBranch() string {
	branch, _ := s.kv.Get(localstore.ActiveBranchKey)
	return branch
}
