// Package password is the one-way vault for user secrets. Digests are bcrypt
// strings, so the cost parameter travels inside the digest and old hashes stay
// verifiable after a cost bump.
package password

import "golang.org/x/crypto/bcrypt"

// Hash derives a salted bcrypt digest from the plaintext.
// Errors only on internal failure (entropy, plaintext over 72 bytes).
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. A malformed digest
// verifies as false rather than erroring, so callers cannot distinguish
// "wrong password" from "broken stored hash".
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
