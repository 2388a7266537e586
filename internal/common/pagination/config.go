// Package pagination implements page/limit query parsing and the pagination
// block returned with every list response.
package pagination

// Config holds the pagination limits of one endpoint family.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns page=1, limit=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// WithDefaultLimit returns a copy of c using limit as the default page size.
func (c Config) WithDefaultLimit(limit int) Config {
	c.DefaultLimit = min(limit, c.MaxLimit)
	return c
}
