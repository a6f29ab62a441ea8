// Package auth provides the password digest primitive shared by both
// storage adapters.
package auth

import (
	"crypto/md5"
	"encoding/hex"
)

// Digest hashes a plaintext password into the stored credential format:
// a lowercase hex md5 digest, fast and non-salted. Both adapters must
// produce byte-identical digests so credentials written through one engine
// verify through the other.
func Digest(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
