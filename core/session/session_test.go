package session

import (
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestFromToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantID   int
		wantRole string
		wantErr  error
	}{
		{name: "empty", token: "", wantErr: ErrInvalidToken},
		{name: "garbage", token: "lol.nope", wantErr: ErrInvalidToken},
		{name: "UserId string", token: signed(t, jwt.MapClaims{"UserId": "7", "role": "Learner"}), wantID: 7, wantRole: RoleLearner},
		{name: "userId number", token: signed(t, jwt.MapClaims{"userId": 12}), wantID: 12},
		{name: "sub", token: signed(t, jwt.MapClaims{"sub": "3"}), wantID: 3},
		{name: "bearer prefix", token: "Bearer " + signed(t, jwt.MapClaims{"sub": "4"}), wantID: 4},
		{
			name:     "dotnet role claim",
			token:    signed(t, jwt.MapClaims{"UserId": "5", "http://schemas.microsoft.com/ws/2008/06/identity/claims/role": "Trainer"}),
			wantID:   5,
			wantRole: RoleTrainer,
		},
		{name: "no id", token: signed(t, jwt.MapClaims{"name": "x"}), wantErr: ErrNoLearnerID},
		{name: "zero id", token: signed(t, jwt.MapClaims{"UserId": "0"}), wantErr: ErrNoLearnerID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := FromToken(tt.token)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, sess.LearnerID)
			assert.Equal(t, tt.wantRole, sess.Role)
			assert.True(t, sess.Valid())
			assert.True(t, sess.IsLearner() || tt.wantRole == RoleTrainer)
		})
	}
}
