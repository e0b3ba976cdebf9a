package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rootlinehq/rootline/auth"
)

func TestAuther_Login_Success(t *testing.T) {
	provider := &MockIdentityProvider{}
	sink := &recordingSink{}

	identity := stubIdentity{id: "5bfa32cb-7f64-4bde-8cf6-dbc2c0ac3f4d", email: "a@x.com", displayName: "A"}
	provider.On("VerifyIdentity", mock.Anything, "a@x.com", "secret1!").Return(identity, nil)

	auther := auth.NewAuthenticator(provider, newTestConfig()).WithActivitySink(sink)

	token, err := auther.Login(context.Background(), "a@x.com", "secret1!")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := auther.SessionFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, identity.id, session.GetUserID())
	assert.Equal(t, identity.email, session.GetEmail())

	require.Len(t, sink.events, 1)
	assert.Equal(t, auth.ActivityEventUserLogin, sink.events[0].EventType)
	assert.Equal(t, identity.id, sink.events[0].Actor.ID)
	assert.Equal(t, identity.id, sink.events[0].TargetID)

	provider.AssertExpectations(t)
}

func TestAuther_Login_InvalidCredentials(t *testing.T) {
	provider := &MockIdentityProvider{}
	sink := &recordingSink{}

	provider.On("VerifyIdentity", mock.Anything, "a@x.com", "wrong").
		Return(nil, auth.ErrInvalidCredentials)

	auther := auth.NewAuthenticator(provider, newTestConfig()).WithActivitySink(sink)

	token, err := auther.Login(context.Background(), "a@x.com", "wrong")
	assert.Empty(t, token)
	assert.True(t, auth.IsInvalidCredentialsError(err))

	// failure telemetry only, never a USER_LOGIN entry
	require.Len(t, sink.events, 1)
	assert.Equal(t, auth.ActivityEventLoginFailure, sink.events[0].EventType)
}

func TestAuther_Login_AuditFailureAbortsLogin(t *testing.T) {
	provider := &MockIdentityProvider{}
	sink := &recordingSink{err: assert.AnError}

	identity := stubIdentity{id: "5bfa32cb-7f64-4bde-8cf6-dbc2c0ac3f4d", email: "a@x.com"}
	provider.On("VerifyIdentity", mock.Anything, "a@x.com", "secret1!").Return(identity, nil)

	auther := auth.NewAuthenticator(provider, newTestConfig()).WithActivitySink(sink)

	token, err := auther.Login(context.Background(), "a@x.com", "secret1!")
	assert.Empty(t, token)
	assert.Error(t, err)
}

func TestAuther_SessionFromToken_Invalid(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := auth.NewAuthenticator(provider, newTestConfig())

	session, err := auther.SessionFromToken("garbage")
	assert.Nil(t, session)
	assert.Error(t, err)
}

func TestAuther_IdentityFromSession(t *testing.T) {
	provider := &MockIdentityProvider{}
	identity := stubIdentity{id: "5bfa32cb-7f64-4bde-8cf6-dbc2c0ac3f4d", email: "a@x.com"}
	provider.On("FindIdentityByIdentifier", mock.Anything, identity.id).Return(identity, nil)

	auther := auth.NewAuthenticator(provider, newTestConfig())

	session := &auth.SessionObject{UserID: identity.id}
	got, err := auther.IdentityFromSession(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, identity.email, got.Email())

	provider.AssertExpectations(t)
}
