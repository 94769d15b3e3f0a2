// Package secure keeps resolved credentials out of ordinary Go memory.
//
// A Secret wraps a memguard enclave: the plaintext is encrypted while the
// value is held and only decrypted for the duration of a Reveal call.
//
//	s := secure.NewSecret(token)   // token is wiped
//	defer s.Destroy()
//
//	err := s.Reveal(func(b []byte) error {
//	    return use(b)
//	})
//
// Formatting a Secret with any fmt verb prints [REDACTED], so a secret
// that ends up in a log line or error message does not leak.
//
// Memory locking depends on the platform. On Linux it is subject to
// RLIMIT_MEMLOCK; when locking fails memguard continues with ordinary
// memory.
package secure
