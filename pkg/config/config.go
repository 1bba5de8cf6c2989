// Package config loads process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/threshold"
	"github.com/spf13/viper"
)

// Config is the immutable process configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"db"`
	Thresholds threshold.Config `mapstructure:"thresholds"`
	Model      ModelConfig      `mapstructure:"model"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Influx     InfluxConfig     `mapstructure:"influx"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig configures the relational store
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"`
	SSLMode        string        `mapstructure:"sslmode"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
}

// ModelConfig points at the classifier artefact
type ModelConfig struct {
	Path string `mapstructure:"path"`
}

// MQTTConfig configures the optional device relay
type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// Enabled reports whether a broker is configured
func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// InfluxConfig configures the optional time-series mirror
type InfluxConfig struct {
	URL         string `mapstructure:"url"`
	Token       string `mapstructure:"token"`
	Org         string `mapstructure:"org"`
	Bucket      string `mapstructure:"bucket"`
	Measurement string `mapstructure:"measurement"`
}

// Enabled reports whether the mirror is fully configured
func (c InfluxConfig) Enabled() bool {
	return c.URL != "" && c.Token != "" && c.Org != "" && c.Bucket != ""
}

// ConnString builds the lib/pq connection string
func (c DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
	if c.ConnectTimeout > 0 {
		connStr += fmt.Sprintf(" connect_timeout=%d", int(c.ConnectTimeout.Seconds()))
	}
	return connStr
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("db.url", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "plant_user")
	v.SetDefault("db.password", "plant_pass")
	v.SetDefault("db.name", "plant_monitoring")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.connect_timeout", 10*time.Second)
	v.SetDefault("db.query_timeout", 10*time.Second)
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)

	defaults := threshold.DefaultConfig()
	v.SetDefault("thresholds.soil_moisture_min", defaults.SoilMoistureMin)
	v.SetDefault("thresholds.light_min", defaults.LightMin)
	v.SetDefault("thresholds.temperature_max", defaults.TemperatureMax)
	v.SetDefault("thresholds.humidity_min", defaults.HumidityMin)

	v.SetDefault("model.path", "plant_health_model.model")

	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "plant-monitor")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", "plants")

	v.SetDefault("influx.url", "")
	v.SetDefault("influx.token", "")
	v.SetDefault("influx.org", "")
	v.SetDefault("influx.bucket", "")
	v.SetDefault("influx.measurement", "sensor_data")
}

// Load reads .env, the optional config.yaml under path and the environment.
// Environment variables win; their names are the keys upper-cased with dots
// replaced by underscores (DB_HOST, SERVER_PORT, THRESHOLDS_HUMIDITY_MIN).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("✓ Loaded environment from .env")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(path)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			log.Printf("✓ Loaded configuration from %s", v.ConfigFileUsed())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port must not be empty")
	}
	if c.Database.URL == "" && c.Database.Host == "" {
		return errors.New("either DB_URL or DB_HOST must be set")
	}
	if c.Database.QueryTimeout <= 0 {
		return errors.New("db query timeout must be positive")
	}
	return nil
}
