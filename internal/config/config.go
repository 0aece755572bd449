package config

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/tbestore/storefront/internal/log"
)

type Application struct {
	Env           string `mapstructure:"env"            json:"env"`
	Host          string `mapstructure:"host"           json:"host"`
	SecretKey     string `mapstructure:"secret_key"     json:"secret_key"`
	AdminUsername string `mapstructure:"admin_username" json:"admin_username"`
	AdminPassword string `mapstructure:"admin_password" json:"admin_password"`
	Port          int    `mapstructure:"port"           json:"port"`
}

type Cache struct {
	Host     string `mapstructure:"host"     json:"host"`
	Password string `mapstructure:"password" json:"password"`
	Database int    `mapstructure:"database" json:"database"`
	Port     uint16 `mapstructure:"port"     json:"port"`
}

type RecordStore struct {
	URL             string `mapstructure:"url"               json:"url"`
	Token           string `mapstructure:"token"             json:"token"`
	CustomerBaseID  string `mapstructure:"customer_base_id"  json:"customer_base_id"`
	CustomerTableID string `mapstructure:"customer_table_id" json:"customer_table_id"`
	OrderBaseID     string `mapstructure:"order_base_id"     json:"order_base_id"`
	OrderTableID    string `mapstructure:"order_table_id"    json:"order_table_id"`
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Config struct {
	RecordStore `mapstructure:"record_store" json:"record_store"`
	Cache       `mapstructure:"cache"        json:"cache"`
	Application `mapstructure:"application"  json:"application"`
	Otel        `mapstructure:"otel"         json:"otel"`
}

var (
	once   sync.Once
	config *Config
)

func InitConfig(c context.Context, filename string) *Config {
	cfg := Config{}
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str("filename", filename).
			Logger()

		viper.SetConfigName(filename)
		viper.AddConfigPath("./env")
		viper.SetConfigType("yaml")
		viper.AutomaticEnv()

		logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
		logger.Info().Msg("reading config")
		err := viper.ReadInConfig()
		if err != nil {
			err = fmt.Errorf("error when reading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		logger.Info().Msg("read config")

		logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
		logger.Info().Msg("unmarshaling config")
		err = viper.Unmarshal(&cfg)
		if err != nil {
			err = fmt.Errorf("error unmarshaling config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = &cfg
		logger = logger.With().Any(log.KeyConfig, cfg).Logger()
		logger.Info().Msg("unmarshaled config")
	})
	return config
}
