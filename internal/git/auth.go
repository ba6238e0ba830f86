package git

import (
	"github.com/gitpulse/gitpulse/internal/giturl"
	"github.com/go-git/go-git/v6/plumbing/transport"
	githttp "github.com/go-git/go-git/v6/plumbing/transport/http"
)

const tokenUsername = "git"

// authMethod resolves credentials for url. Explicit credentials win over the
// configured defaults; non-http remotes rely on the ambient ssh agent.
func (s *Service) authMethod(url string, creds *Credentials) transport.AuthMethod {
	parsed, err := giturl.Parse(url)
	if err != nil || !parsed.IsHTTP() {
		return nil
	}

	if creds != nil && (creds.Username != "" || creds.Password != "") {
		return &githttp.BasicAuth{
			Username: creds.Username,
			Password: creds.Password,
		}
	}

	if s.config.Auth.HTTPS.DefaultToken == "" {
		return nil
	}

	username := s.config.Auth.HTTPS.DefaultUsername
	if username == "" {
		username = tokenUsername
	}

	return &githttp.BasicAuth{
		Username: username,
		Password: s.config.Auth.HTTPS.DefaultToken,
	}
}
