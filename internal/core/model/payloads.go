package model

// SignUpArgs contain the arguments of the SignUp method. The caller is
// expected to have schema-validated the fields already: the pipeline only
// re-validates uniqueness.
type SignUpArgs struct {
	// Nickname is the requested nickname.
	Nickname string

	// Email is the user email.
	Email string

	// Password is the plain-text password. It is hashed before any
	// persistence and never stored or logged.
	Password string

	// Terms records the acceptance of the terms of service.
	Terms bool
}

// SignUpResponse contains the response of the SignUp method.
type SignUpResponse struct {
	// User is the created account.
	User User

	// Session is the session issued for the new account.
	Session Session

	// Cookie carries the session cookie transport parameters.
	Cookie SessionCookie
}
