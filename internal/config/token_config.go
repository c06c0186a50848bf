package config

// TokenConfig supplies the shared secret used to verify token signatures
// and the trust profile for decoded claims.
type TokenConfig interface {
	GetTokenSecret() string
	GetVerifySignature() bool
}

type Token struct{}

var _ TokenConfig = Token{}

// GetTokenSecret returns the HMAC secret shared with the identity API.
// Never log or echo this value.
func (Token) GetTokenSecret() string {
	return GetEnv("JWT_SECRET", "")
}

// GetVerifySignature controls whether token signatures are verified before
// claims are trusted. Verification is the default; set
// TOKEN_VERIFY_SIGNATURE=false to opt out (decode-only profile).
func (Token) GetVerifySignature() bool {
	return GetEnv("TOKEN_VERIFY_SIGNATURE", "true") != "false"
}
