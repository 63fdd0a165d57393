package oauth2

// newKeychainStore would bind to the OS keychain. No such binding is
// wired into this build target, so it always reports unavailable and the
// tiered store falls through to the encrypted file tier.
func newKeychainStore() TokenStore {
	return nil
}
