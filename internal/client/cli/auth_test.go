package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/scholarsphere/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	ta := newTestApp(t, "janedoe1", "y")
	ta.session.loginFaculty = jane()
	stubPasswords(t, "password10")

	require.NoError(t, ta.Login(context.Background()))

	assert.Equal(t, "janedoe1", ta.session.loginUser)
	assert.Equal(t, "password10", ta.session.loginPass)
	assert.True(t, ta.session.remember)
	assert.Equal(t, "Jane Doe", ta.userName)
	assert.Equal(t, ModeOnline, ta.Mode)
	assert.Contains(t, ta.out.String(), "Login successful")
}

func TestLogin_ErrorsAreAttributedToFields(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"password", &client.APIError{Message: "Invalid password", StatusCode: 401}, "  password: Invalid password"},
		{"username", &client.APIError{Message: "Username not found", StatusCode: 404}, "  username: Username not found"},
		{"other", &client.APIError{Message: "Account locked", StatusCode: 403}, "Error: Account locked"},
		{"offline", client.ErrUnavailable, "Server unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, "janedoe1", "")
			ta.session.loginErr = tt.err
			stubPasswords(t, "wrong")

			err := ta.Login(context.Background())
			require.ErrorIs(t, err, tt.err)
			assert.Contains(t, ta.out.String(), tt.want)
			assert.False(t, ta.isLoggedIn())
		})
	}
}

func TestLogout(t *testing.T) {
	ta := newTestApp(t)
	ta.userName = "Jane Doe"
	ta.session.authenticated = true

	require.NoError(t, ta.Logout(context.Background()))
	assert.Equal(t, 1, ta.session.logouts)
	assert.False(t, ta.isLoggedIn())
}

func TestStatus(t *testing.T) {
	ta := newTestApp(t)
	ta.userName = "stale"
	require.NoError(t, ta.Status(context.Background()))
	assert.Equal(t, "Not logged in\n", ta.out.String())
	assert.False(t, ta.isLoggedIn())

	ta = newTestApp(t)
	ta.session.authenticated = true
	ta.cache.snapshot = jane()
	require.NoError(t, ta.Status(context.Background()))
	assert.Equal(t, "Logged in as Jane Doe ("+janeID+")\n", ta.out.String())
	assert.Equal(t, "Jane Doe", ta.userName)
}
