package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()
	assert.Equal(t, 10, s.PostsPerPage)
	assert.False(t, s.DisplayEmail)
	assert.Empty(t, s.ID)
	assert.Empty(t, s.UserID)
}

func TestNewUser(t *testing.T) {
	u := NewUser()
	assert.Empty(t, u.ID)
	assert.Nil(t, u.Email)
	assert.Nil(t, u.Password)
	assert.Equal(t, NewSettings(), u.Settings)
}
