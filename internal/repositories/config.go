package repositories

type Config struct {
	// Root directory for working copies
	WorkDir string
}
