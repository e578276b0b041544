// Package auth holds the credential primitives of the fitness log: the
// HMAC token codec for session and confirmation tokens, and the argon2id
// password hasher.
package auth
