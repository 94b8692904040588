package persist

const (
	// BackendFile stores the document in a local file
	BackendFile = "file"
	// BackendPostgres stores the document in the state database
	BackendPostgres = "postgres"
)

// Config for the persisted state
type Config struct {
	// Backend is either "file" or "postgres"
	Backend string `mapstructure:"Backend"`
	// FilePath is the document location when Backend is "file"
	FilePath string `mapstructure:"FilePath"`
}
