package session

// User is the identity slice of a Session exposed to clients.
type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Session is the externally visible projection of a Principal. It is
// re-derived from the stored principal on every materialization, never
// cached or independently mutated. RefreshToken is omitted entirely (not
// an empty string) when the identity API issued a single token.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         User   `json:"user"`
}
