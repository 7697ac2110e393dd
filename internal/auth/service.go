package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/afriart/marketplace/internal/adapter"
	"github.com/afriart/marketplace/internal/domain"
	"github.com/afriart/marketplace/internal/store/schema"
	"github.com/afriart/marketplace/internal/types"
)

// Token scopes. A session token carries a registered user; a registration
// token only proves wallet ownership so the holder can create an account.
const (
	ScopeSession      = "session"
	ScopeRegistration = "registration"
)

// Claims is the JWT payload issued by the marketplace
type Claims struct {
	jwt.RegisteredClaims
	WalletAddress string      `json:"wallet_address"`
	UserID        int64       `json:"user_id,omitempty"`
	Role          domain.Role `json:"role,omitempty"`
	Scope         string      `json:"scope"`
}

// Config holds the authentication service configuration
type Config struct {
	JWTSecret       string
	SessionTTL      time.Duration
	RegistrationTTL time.Duration
	ChallengeTTL    time.Duration
	ChallengeDomain string
}

// Store is the subset of database operations the auth service needs
type Store interface {
	CreateAuthChallenge(ctx context.Context, challenge *schema.AuthChallenge) error
	GetAuthChallengeByNonce(ctx context.Context, nonce string) (*schema.AuthChallenge, error)
	ConsumeAuthChallenge(ctx context.Context, nonce string, at time.Time) error
	GetUserByWalletAddress(ctx context.Context, walletAddress string) (*schema.User, error)
}

// VerifyResult holds the outcome of a successful challenge verification
type VerifyResult struct {
	// Token is a session JWT, or a registration-scoped JWT when the wallet
	// has no account yet
	Token string
	// ExpiresAt is the token expiry
	ExpiresAt time.Time
	// RegistrationRequired signals the wallet is unknown and the client
	// should complete registration with the returned token
	RegistrationRequired bool
	// User is the signed-in user (nil when RegistrationRequired)
	User *schema.User
}

// Service implements wallet-based sign-in: issue a challenge, verify the
// wallet's signature over it, and hand out JWTs.
type Service struct {
	store Store
	clock adapter.Clock
	cfg   Config
}

// NewService creates a new authentication service
func NewService(store Store, clock adapter.Clock, cfg Config) *Service {
	return &Service{
		store: store,
		clock: clock,
		cfg:   cfg,
	}
}

// IssueChallenge creates a single-use challenge for the wallet to sign
func (s *Service) IssueChallenge(ctx context.Context, walletAddress string) (*schema.AuthChallenge, error) {
	if !types.IsEVMAddress(walletAddress) {
		return nil, fmt.Errorf("invalid wallet address: %s", walletAddress)
	}
	address := types.NormalizeEVMAddress(walletAddress)

	now := s.clock.Now().UTC()
	nonce := uuid.NewString()

	challenge := &schema.AuthChallenge{
		Nonce:         nonce,
		WalletAddress: address,
		Message:       s.buildChallengeMessage(address, nonce, now),
		ExpiresAt:     now.Add(s.cfg.ChallengeTTL),
	}
	if err := s.store.CreateAuthChallenge(ctx, challenge); err != nil {
		return nil, err
	}

	return challenge, nil
}

// Verify checks the wallet's signature over a previously issued challenge and
// returns a session token, or a registration token for unknown wallets. The
// challenge is consumed either way; a replayed nonce fails.
func (s *Service) Verify(ctx context.Context, nonce string, signature string) (*VerifyResult, error) {
	challenge, err := s.store.GetAuthChallengeByNonce(ctx, nonce)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	if now.After(challenge.ExpiresAt) {
		return nil, domain.ErrChallengeExpired
	}

	recovered, err := RecoverSigner(challenge.Message, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to recover signer: %w", err)
	}
	if types.NormalizeEVMAddress(recovered) != challenge.WalletAddress {
		return nil, domain.ErrSignatureMismatch
	}

	// Consume before issuing anything so a raced duplicate fails
	if err := s.store.ConsumeAuthChallenge(ctx, nonce, now); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByWalletAddress(ctx, challenge.WalletAddress)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}

		// Unknown wallet: issue a short-lived registration token
		token, expiresAt, err := s.issueToken(challenge.WalletAddress, 0, "", ScopeRegistration, s.cfg.RegistrationTTL)
		if err != nil {
			return nil, err
		}
		return &VerifyResult{
			Token:                token,
			ExpiresAt:            expiresAt,
			RegistrationRequired: true,
		}, nil
	}

	if user.DeactivatedAt != nil {
		return nil, domain.ErrUserDeactivated
	}

	token, expiresAt, err := s.IssueSessionToken(user)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// IssueSessionToken issues a session JWT for a registered user
func (s *Service) IssueSessionToken(user *schema.User) (string, time.Time, error) {
	return s.issueToken(user.WalletAddress, user.ID, user.Role, ScopeSession, s.cfg.SessionTTL)
}

// ParseToken validates a JWT and returns its claims
func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *Service) issueToken(walletAddress string, userID int64, role domain.Role, scope string, ttl time.Duration) (string, time.Time, error) {
	now := s.clock.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.ChallengeDomain,
			Subject:   walletAddress,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		WalletAddress: walletAddress,
		UserID:        userID,
		Role:          role,
		Scope:         scope,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// buildChallengeMessage renders the human-readable text the wallet signs
func (s *Service) buildChallengeMessage(address, nonce string, issuedAt time.Time) string {
	return fmt.Sprintf(
		"%s wants you to sign in with your wallet:\n%s\n\nNonce: %s\nIssued At: %s",
		s.cfg.ChallengeDomain,
		address,
		nonce,
		issuedAt.Format(time.RFC3339),
	)
}
