package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/PSUNAND/Medassist/app/domain"
)

// Config holds JWT generation configuration.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// sessionClaims represents the JWT claims carried by a session credential.
// Role and Ver are issuance-time snapshots; the middleware re-resolves both
// against the identity store before granting access.
type sessionClaims struct {
	Role string `json:"role"`
	Ver  int64  `json:"ver"`
	jwt.RegisteredClaims
}

// JWTCodec issues and verifies HS256-signed session credentials.
// Implements port.TokenCodec.
type JWTCodec struct {
	cfg Config
}

// NewJWTCodec creates a new codec.
func NewJWTCodec(cfg Config) (*JWTCodec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	return &JWTCodec{cfg: cfg}, nil
}

// Issue generates a signed credential for the given identity.
func (c *JWTCodec) Issue(userID uuid.UUID, role domain.UserRole, tokenVersion int64) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: string(role),
		Ver:  tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.cfg.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry, in that order of severity:
// a blob that does not parse is malformed, a parsed blob with a bad signature
// is rejected regardless of its timestamps, and expiry is enforced by the
// parser itself.
func (c *JWTCodec) Verify(blob string) (*domain.TokenClaims, error) {
	if blob == "" {
		return nil, domain.ErrMalformedToken
	}

	parsed, err := jwt.ParseWithClaims(blob, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrInvalidSignature
		}
		return []byte(c.cfg.Secret), nil
	}, jwt.WithIssuer(c.cfg.Issuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrMalformedToken
		default:
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
		}
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrMalformedToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrMalformedToken
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, domain.ErrMalformedToken
	}

	return &domain.TokenClaims{
		UserID:       userID,
		AdvisoryRole: claims.Role,
		TokenVersion: claims.Ver,
		IssuedAt:     claims.IssuedAt.Time,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}
