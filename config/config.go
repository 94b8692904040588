package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/activity"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/analytics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/chain"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/db"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/ethprovider"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/metrics"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/monitor"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/persist"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/server"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/submitter"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/wallet"
	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const (
	// FlagCfg is the flag for cfg.
	FlagCfg = "cfg"
	// FlagNoMigrations is the flag for migrations.
	FlagNoMigrations = "no-migrations"

	envPrefix = "ZKEVM_TX_TRACKER"
)

// Config is the tracker configuration
type Config struct {
	// Log configuration
	Log log.Config `mapstructure:"Log"`

	// Server configuration
	Server server.Config `mapstructure:"Server"`

	// DB configuration, used when Persistence.Backend is "postgres"
	DB db.Config `mapstructure:"DB"`

	// Persistence configuration
	Persistence persist.Config `mapstructure:"Persistence"`

	// Monitor configuration
	Monitor monitor.Config `mapstructure:"Monitor"`

	// Submitter configuration
	Submitter submitter.Config `mapstructure:"Submitter"`

	// Activity configuration
	Activity activity.Config `mapstructure:"Activity"`

	// Chains configuration
	Chains chain.Config `mapstructure:"Chains"`

	// Wallet configuration
	Wallet wallet.Config `mapstructure:"Wallet"`

	// Notification configuration
	Notification notification.Config `mapstructure:"Notification"`

	// Analytics configuration
	Analytics analytics.Config `mapstructure:"Analytics"`

	// Ethprovider configuration
	Ethprovider ethprovider.Config `mapstructure:"Ethprovider"`

	// Metrics configuration
	Metrics metrics.Config `mapstructure:"Metrics"`
}

// Default parses the default configuration values.
func Default() (*Config, error) {
	var cfg Config
	v := viper.New()
	v.SetConfigType("toml")

	err := v.ReadConfig(bytes.NewBuffer([]byte(DefaultValues)))
	if err != nil {
		return nil, err
	}
	err = v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()))
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads the configuration from the file given in the cfg flag
func Load(ctx *cli.Context) (*Config, error) {
	return LoadFile(ctx.String(FlagCfg))
}

// LoadFile loads the configuration on top of the defaults, environment
// variables prefixed with ZKEVM_TX_TRACKER override both
func LoadFile(configFilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	err := v.ReadConfig(bytes.NewBuffer([]byte(DefaultValues)))
	if err != nil {
		return nil, err
	}

	if configFilePath != "" {
		dirName, fileName := filepath.Split(configFilePath)

		fileExtension := strings.TrimPrefix(filepath.Ext(fileName), ".")
		fileNameWithoutExtension := strings.TrimSuffix(fileName, "."+fileExtension)

		v.AddConfigPath(dirName)
		v.SetConfigName(fileNameWithoutExtension)
		v.SetConfigType(fileExtension)
		err = v.MergeInConfig()
		if err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Errorf("error reading config file: %v", err)
				return nil, err
			}
			log.Infof("config file not found")
		}
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)

	decodeHooks := []viper.DecoderConfigOption{
		// this allows arrays to be decoded from env var separated by ",", example: MY_VAR="value1,value2,value3"
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(mapstructure.TextUnmarshallerHookFunc(), mapstructure.StringToSliceHookFunc(","))),
	}

	var cfg Config
	err = v.Unmarshal(&cfg, decodeHooks...)
	if err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Monitor.QueueSize < cfg.Monitor.Workers {
		return fmt.Errorf("invalid configuration: Monitor.QueueSize must be greater or equal than Monitor.Workers")
	}
	switch cfg.Persistence.Backend {
	case persist.BackendFile:
		if cfg.Persistence.FilePath == "" {
			return fmt.Errorf("invalid configuration: Persistence.FilePath is required by the file backend")
		}
	case persist.BackendPostgres:
	default:
		return fmt.Errorf("invalid configuration: unknown Persistence.Backend %q", cfg.Persistence.Backend)
	}
	if cfg.Submitter.TransactionLookupBackoff.Duration <= 0 {
		return fmt.Errorf("invalid configuration: Submitter.TransactionLookupBackoff must be positive")
	}
	return nil
}

// Schema returns the JSON schema of the configuration file
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   "mapstructure",
	}
	schema := r.Reflect(&Config{})
	schema.Title = "zkEVM Tx Tracker config file"
	return schema
}
