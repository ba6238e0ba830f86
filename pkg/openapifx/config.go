package openapifx

type Config struct {
	Enabled bool
	// Host and base path announced in the document, defaults are kept when empty
	PublicHost string
	PublicPath string
}
