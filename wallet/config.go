package wallet

// Config for the local accounts
type Config struct {
	// PrivateKeys are hex encoded secp256k1 keys of the signing accounts
	PrivateKeys []string `mapstructure:"PrivateKeys"`
	// WatchAddresses are tracked accounts without a signing key
	WatchAddresses []string `mapstructure:"WatchAddresses"`
}
