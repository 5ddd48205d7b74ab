package driven

// ConfigStore is the key/value view of config.toml that SettingsService
// reads settings from. Keys name a table and a field, as in
// "chunking.size" or "sources.urls". Typed getters return the zero value
// for a missing key or a value of the wrong type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is present.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int

	// GetFloat also accepts integers, so "temperature = 1" reads as 1.0.
	GetFloat(key string) float64

	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set updates a value and writes the file.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is the location of config.toml under the pagechat home.
	Path() string
}
