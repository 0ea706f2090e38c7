// Package session carries the identity of the signed-in user explicitly,
// instead of reading it from ambient storage.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Roles
const (
	RoleAdmin   = "Admin"
	RoleTrainer = "Trainer"
	RoleLearner = "Learner"
)

// claim names the LMS backend may use for the user id and role.
var (
	idClaims   = []string{"UserId", "userId", "sub"}
	roleClaims = []string{"role", "Role", "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"}

	ErrInvalidToken = errors.New("invalid token")
	ErrNoLearnerID  = errors.New("token does not carry a learner id")
)

// Session is the scoped identity of the current user: the bearer token and
// the learner id derived from it.
type Session struct {
	Token     string
	LearnerID int
	Role      string
}

// New returns a Session for an already known learner.
func New(token string, learnerID int) Session {
	return Session{Token: token, LearnerID: learnerID, Role: RoleLearner}
}

// FromToken decodes the token payload to find the learner id.
// The signature is not verified; the server does that on every request.
func FromToken(token string) (Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Session{}, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return Session{}, errors.Wrap(ErrInvalidToken, err.Error())
	}

	sess := Session{Token: token}
	for _, name := range idClaims {
		if id, ok := claimInt(claims[name]); ok {
			sess.LearnerID = id
			break
		}
	}
	if sess.LearnerID <= 0 {
		return Session{}, ErrNoLearnerID
	}
	for _, name := range roleClaims {
		if role, ok := claims[name].(string); ok && role != "" {
			sess.Role = role
			break
		}
	}
	return sess, nil
}

func (s Session) IsLearner() bool { return s.Role == "" || strings.EqualFold(s.Role, RoleLearner) }

// Valid reports whether the session can be used for authenticated calls.
func (s Session) Valid() bool { return s.Token != "" && s.LearnerID > 0 }

func (s Session) String() string {
	return fmt.Sprintf("learner %d", s.LearnerID)
}

func claimInt(val interface{}) (int, bool) {
	switch v := val.(type) {
	case float64:
		return int(v), v > 0
	case string:
		id, err := strconv.Atoi(strings.TrimSpace(v))
		return id, err == nil && id > 0
	case int:
		return v, v > 0
	}
	return 0, false
}
