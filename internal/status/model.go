package status

// Data contains all the information to display in status
type Data struct {
	// Header
	CurrentDir string
	Version    string
	Shell      string

	// Shell integration
	HookSupported bool
	HookInstalled bool

	// Configuration
	ConfigPath           string
	LogLevel             string
	ExtensionCompletions bool
	DevMode              bool
	WordCommands         []string
	ToolCount            int

	// Registered providers, in registration order
	Providers []ProviderInfo

	// Set when the config could not be loaded
	ConfigError string
}

// ProviderInfo describes one registration
type ProviderInfo struct {
	Namespace string
	ID        string
	Triggers  []string
	Shells    []string
	Builtin   bool
}
