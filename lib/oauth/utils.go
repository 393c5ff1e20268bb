package oauth

// stateCookieName returns the name of the cookie tracking an in progress login.
func stateCookieName(namespace string) string {
	return namespace + "Auth"
}

// credentialsCookieName returns the name of the cookie holding the user credentials.
func credentialsCookieName(namespace string) string {
	return namespace + "Creds"
}
