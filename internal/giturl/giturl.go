// Package giturl validates remote repository URLs and extracts the parts
// used to name and authenticate working copies.
package giturl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/containerd/errdefs"
)

var (
	// The repository name can contain
	// ASCII letters, digits, and the characters ., -, and _.

	// user@host.xz:path/to/repo.git
	scpURLRgx = regexp.MustCompile(`^(?P<user>[\w\-\.]+)@(?P<host>([\w\-]+\.?[\w\-]+)+(\:\d+)?):(?P<path>([\w\-\.]+\/)*)(?P<repo>[\w\-\.]+(\.git)?)$`)

	// ssh://user@host.xz[:port]/path/to/repo.git
	sshURLRgx = regexp.MustCompile(`^ssh://(?P<user>[\w\-\.]+)@(?P<host>([\w\-]+\.?[\w\-]+)+(\:\d+)??)/(?P<path>([\w\-\.]+\/)*)(?P<repo>[\w\-\.]+(\.git)?)$`)

	// http[s]://host.xz[:port]/path/to/repo.git
	httpURLRgx = regexp.MustCompile(`^(?P<scheme>https?)://(?P<host>([\w\-]+\.?[\w\-]+)+(\:\d+)?)/(?P<path>([\w\-\.]+\/)*)(?P<repo>[\w\-\.]+(\.git)?)$`)

	// file:///path/to/repo.git
	localURLRgx = regexp.MustCompile(`^file:///(?P<path>([\w\-\.]+\/)*)(?P<repo>[\w\-\.]+(\.git)?)$`)
)

var ErrInvalidURL = fmt.Errorf("%w: invalid repository url", errdefs.ErrInvalidArgument)

type Scheme string

const (
	SchemeSCP   Scheme = "scp"
	SchemeSSH   Scheme = "ssh"
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
	SchemeLocal Scheme = "local"
)

// URL is a parsed remote url.
type URL struct {
	Scheme Scheme
	User   string // empty for http and local urls
	Host   string // host or host:port
	Path   string // path to the repo without the repo name
	Repo   string // repository name from the path, includes .git
}

// Name returns the repository name without the .git suffix.
func (u *URL) Name() string {
	return strings.TrimSuffix(u.Repo, ".git")
}

// IsHTTP reports whether the url is fetched over http(s), the only
// transports that accept basic credentials.
func (u *URL) IsHTTP() bool {
	return u.Scheme == SchemeHTTP || u.Scheme == SchemeHTTPS
}

// Normalise returns the form used to compare urls for equality.
func Normalise(rawURL string) string {
	nURL := strings.ToLower(strings.TrimSpace(rawURL))
	nURL = strings.TrimRight(nURL, "/")

	return nURL
}

// Parse parses a raw url. Valid urls are...
//   - user@host.xz:path/to/repo.git
//   - ssh://user@host.xz[:port]/path/to/repo.git
//   - http[s]://host.xz[:port]/path/to/repo.git
//   - file:///path/to/repo.git
func Parse(rawURL string) (*URL, error) {
	gURL := &URL{}

	rawURL = strings.TrimRight(strings.TrimSpace(rawURL), "/")

	switch {
	case scpURLRgx.MatchString(rawURL):
		sections := scpURLRgx.FindStringSubmatch(rawURL)
		gURL.Scheme = SchemeSCP
		gURL.User = sections[scpURLRgx.SubexpIndex("user")]
		gURL.Host = sections[scpURLRgx.SubexpIndex("host")]
		gURL.Path = sections[scpURLRgx.SubexpIndex("path")]
		gURL.Repo = sections[scpURLRgx.SubexpIndex("repo")]
	case sshURLRgx.MatchString(rawURL):
		sections := sshURLRgx.FindStringSubmatch(rawURL)
		gURL.Scheme = SchemeSSH
		gURL.User = sections[sshURLRgx.SubexpIndex("user")]
		gURL.Host = sections[sshURLRgx.SubexpIndex("host")]
		gURL.Path = sections[sshURLRgx.SubexpIndex("path")]
		gURL.Repo = sections[sshURLRgx.SubexpIndex("repo")]
	case httpURLRgx.MatchString(rawURL):
		sections := httpURLRgx.FindStringSubmatch(rawURL)
		gURL.Scheme = Scheme(sections[httpURLRgx.SubexpIndex("scheme")])
		gURL.Host = sections[httpURLRgx.SubexpIndex("host")]
		gURL.Path = sections[httpURLRgx.SubexpIndex("path")]
		gURL.Repo = sections[httpURLRgx.SubexpIndex("repo")]
	case localURLRgx.MatchString(rawURL):
		sections := localURLRgx.FindStringSubmatch(rawURL)
		gURL.Scheme = SchemeLocal
		gURL.Path = sections[localURLRgx.SubexpIndex("path")]
		gURL.Repo = sections[localURLRgx.SubexpIndex("repo")]
	default:
		return nil, fmt.Errorf(
			"%w: %q, supported urls are 'user@host.xz:path/to/repo.git', 'ssh://user@host.xz/path/to/repo.git', 'https://host.xz/path/to/repo.git' or 'file:///path/to/repo.git'",
			ErrInvalidURL, rawURL)
	}

	// scp path doesn't have leading "/"
	// also removing trailing "/" for consistency
	gURL.Path = strings.Trim(gURL.Path, "/")

	if gURL.Repo == "" || gURL.Repo == ".git" {
		return nil, fmt.Errorf("%w: repo name is invalid", ErrInvalidURL)
	}

	return gURL, nil
}
