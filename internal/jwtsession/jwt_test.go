package jwtsession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	id "alumnet/pkg/domain"
	dErrors "alumnet/pkg/domain-errors"
)

func TestIssueAndValidate(t *testing.T) {
	svc := New("test-signing-key", "alumnet")
	userID := id.NewUserID()
	sessionID := id.NewSessionID()

	token, err := svc.Issue(userID, sessionID, id.RoleStudent, time.Hour)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, userID.String(), claims.UserID)
	require.Equal(t, sessionID.String(), claims.SessionID)
	require.Equal(t, "student", claims.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := New("test-signing-key", "alumnet")

	token, err := svc.Issue(id.NewUserID(), id.NewSessionID(), id.RoleAlumni, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateWrongKey(t *testing.T) {
	signer := New("key-one", "alumnet")
	verifier := New("key-two", "alumnet")

	token, err := signer.Issue(id.NewUserID(), id.NewSessionID(), id.RoleAlumni, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateGarbage(t *testing.T) {
	svc := New("test-signing-key", "alumnet")
	_, err := svc.Validate("not.a.token")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
