package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type Banguat struct {
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (b Banguat) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	Banguat    Banguat    `mapstructure:"banguat"`
	Logging    Logging    `mapstructure:"logging"`
}

// RegisterFlags adds the command line overrides understood by Init.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file")
	flags.String("endpoint", "", "Banguat web service endpoint (WSDL URL)")
	flags.Int("timeout", 0, "upstream request timeout in seconds")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("port", "", "HTTP port for the serve command")
}

// Init layers defaults, an optional YAML file, .env, environment variables and flags.
// flags may be nil.
func Init(flags *pflag.FlagSet) (*AppConfig, error) {
	var cfg AppConfig

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("banguat.endpoint", "https://www.banguat.gob.gt/variables/ws/tipocambio.asmx?WSDL")
	v.SetDefault("banguat.timeout_seconds", 10)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("http_server.port", "8080")

	configFile := ""
	if flags != nil {
		configFile, _ = flags.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	_ = v.BindEnv("banguat.endpoint", "BANGUAT_ENDPOINT")
	_ = v.BindEnv("banguat.timeout_seconds", "BANGUAT_TIMEOUT_SECONDS")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	if flags != nil {
		bindFlag(v, "banguat.endpoint", flags.Lookup("endpoint"))
		bindFlag(v, "banguat.timeout_seconds", flags.Lookup("timeout"))
		bindFlag(v, "logging.level", flags.Lookup("log-level"))
		bindFlag(v, "http_server.port", flags.Lookup("port"))
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// bindFlag only lets a flag win when it was set, so flag defaults never hide env values.
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if flag == nil || !flag.Changed {
		return
	}
	_ = v.BindPFlag(key, flag)
}
