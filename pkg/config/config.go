package config

import (
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

type option struct {
	cfg        string
	name       string
	envPrefix  string
	configType string
	defaults   map[string]interface{}
}

type Option func(*option)

func WithConfigFile(cfg string) Option {
	return func(o *option) {
		o.cfg = cfg
	}
}

func WithConfigType(configType string) Option {
	return func(o *option) {
		o.configType = configType
	}
}

func WithName(name string) Option {
	return func(o *option) {
		o.name = name
	}
}

func WithEnvPrefix(envPrefix string) Option {
	return func(o *option) {
		o.envPrefix = envPrefix
	}
}

// WithDefaults sets values used when neither the file nor the environment has the key
func WithDefaults(defaults map[string]interface{}) Option {
	return func(o *option) {
		o.defaults = defaults
	}
}

// LoadConfig init Config
func LoadConfig(opts ...Option) error {
	o := &option{
		name:       ".actionstore",
		envPrefix:  "actionstore",
		configType: "yaml",
	}

	for _, opt := range opts {
		opt(o)
	}
	for key, value := range o.defaults {
		viper.SetDefault(key, value)
	}
	if o.cfg != "" {
		// Use config file from the flag.
		viper.SetConfigFile(o.cfg)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(o.name)
		viper.SetConfigType(o.configType)
	}

	// ACTIONSTORE_MYSQL_IP overrides mysql.ip
	viper.SetEnvPrefix(o.envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return viper.ReadInConfig()
}
