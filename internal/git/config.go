package git

type HTTPSAuthConfig struct {
	DefaultToken    string
	DefaultUsername string
}

type AuthConfig struct {
	HTTPS HTTPSAuthConfig
}

type Config struct {
	Auth AuthConfig
}
