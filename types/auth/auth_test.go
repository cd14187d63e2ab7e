package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupRequest(t *testing.T) {
	r := SignupRequest{Email: " asha@example.com ", Password: "longenough", FirstName: "Asha"}
	require.NoError(t, r.Validate())

	u := r.ToUser("u-1")
	assert.Equal(t, "asha@example.com", u.Email)
	require.NotNil(t, u.FirstName)
	assert.Equal(t, "Asha", *u.FirstName)
	assert.Nil(t, u.LastName)

	assert.Error(t, (&SignupRequest{Email: "nope", Password: "longenough"}).Validate())
	assert.Error(t, (&SignupRequest{Email: "a@b.co", Password: "short"}).Validate())
}

func TestLoginRequest(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "a@b.co", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "a@b.co"}).Validate())
	assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
}
