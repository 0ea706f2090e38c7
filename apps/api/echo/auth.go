package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/tarunb-0127/minilms/core/session"
)

const (
	tokenContextKey   = "userToken"
	learnerContextKey = "learnerID"
	learnerIDHeader   = "LearnerId"
)

func newJWTConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	UserID int    `json:"UserId,omitempty"`
	Role   string `json:"role,omitempty"`
}

// LearnerID returns the UserId claim, falling back to the subject.
func (c Claims) LearnerID() int {
	if c.UserID != 0 {
		return c.UserID
	}
	id, _ := strconv.Atoi(c.Subject)
	return id
}

// NewLearnerClaims returns the claims of learnerID's token, valid for expiresIn.
func NewLearnerClaims(learnerID int, issuer string, expiresIn time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			Subject:   strconv.Itoa(learnerID),
			ExpiresAt: now.Add(expiresIn).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID: learnerID,
		Role:   session.RoleLearner,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(secretKey string, claims *Claims) (string, error) {
	conf := newJWTConfig(secretKey)
	method := jwt.GetSigningMethod(conf.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(conf.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextSession returns the session of the authenticated learner, if any.
func getContextSession(ctx echo.Context) (session.Session, bool) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return session.Session{}, false
	}
	sess := session.New("", claims.LearnerID())
	if claims.Role != "" {
		sess.Role = claims.Role
	}
	return sess, true
}

func getContextLearnerID(ctx echo.Context) (int, error) {
	if id, ok := ctx.Get(learnerContextKey).(int); ok && id != 0 {
		return id, nil
	}
	return 0, errUnauthorized
}

// checkLearner rejects bodies submitted on behalf of another learner.
func checkLearner(ctx echo.Context, learnerID int) error {
	id, err := getContextLearnerID(ctx)
	if err != nil {
		return err
	}
	if learnerID != id {
		return echo.NewHTTPError(http.StatusForbidden, "learnerId does not match the authenticated learner")
	}
	return nil
}
