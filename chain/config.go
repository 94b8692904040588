package chain

// Config for the chain registry
type Config struct {
	// RegistryFile is a yaml file with the supported chains, the built in
	// registry is used when empty
	RegistryFile string `mapstructure:"RegistryFile"`
}
