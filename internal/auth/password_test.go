package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigest(t *testing.T) {
	// Known md5 vectors; the stored format must stay stable across engines.
	assert.Equal(t, "098f6bcd4621d373cade4e832627b4f6", Digest("test"))
	assert.Equal(t, "5f4dcc3b5aa765d61d8327deb882cf99", Digest("password"))
}

func TestDigestDeterministic(t *testing.T) {
	assert.Equal(t, Digest("hunter2"), Digest("hunter2"))
	assert.NotEqual(t, Digest("hunter2"), Digest("hunter3"))
}
