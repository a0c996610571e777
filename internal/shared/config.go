package shared

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	InventoryBase     string
	InventoryEmail    string
	InventoryPassword string
	InventoryRPS      int

	FlightBase         string
	FlightClientID     string
	FlightClientSecret string
	FlightMaxOffers    int

	CatalogPath string
	OriginHub   string
	OriginLabel string
	Workers     int
	CacheTTL    time.Duration
}

// Load reads configuration from the environment, optionally layered over the
// file named by CONFIG_FILE.
func Load() Config {
	v := viper.New()
	v.SetDefault("app_env", "prod")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_addr", ":9100")
	v.SetDefault("mysql_dsn", "root:root@tcp(localhost:3306)/tripbook?parseTime=true&charset=utf8mb4,utf8&loc=UTC")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("tripxplo_base_url", "https://api.tripxplo.com/v1/api")
	v.SetDefault("tripxplo_email", "")
	v.SetDefault("tripxplo_password", "")
	v.SetDefault("tripxplo_rps", 5)
	v.SetDefault("amadeus_base_url", "https://test.api.amadeus.com")
	v.SetDefault("amadeus_client_id", "")
	v.SetDefault("amadeus_client_secret", "")
	v.SetDefault("amadeus_max_offers", 5)
	v.SetDefault("catalog_path", "all_hotels.csv")
	v.SetDefault("origin_hub", "MAA")
	v.SetDefault("origin_label", "Chennai")
	v.SetDefault("warm_workers", 8)
	v.SetDefault("cache_ttl_seconds", 900)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("config file not read; using environment only")
		}
	}

	c := Config{
		AppEnv:             v.GetString("app_env"),
		LogLevel:           v.GetString("log_level"),
		HTTPAddr:           v.GetString("http_addr"),
		MetricsAddr:        v.GetString("metrics_addr"),
		MySQLDSN:           v.GetString("mysql_dsn"),
		RedisAddr:          v.GetString("redis_addr"),
		RedisPass:          v.GetString("redis_password"),
		RedisDB:            v.GetInt("redis_db"),
		InventoryBase:      v.GetString("tripxplo_base_url"),
		InventoryEmail:     v.GetString("tripxplo_email"),
		InventoryPassword:  v.GetString("tripxplo_password"),
		InventoryRPS:       v.GetInt("tripxplo_rps"),
		FlightBase:         v.GetString("amadeus_base_url"),
		FlightClientID:     v.GetString("amadeus_client_id"),
		FlightClientSecret: v.GetString("amadeus_client_secret"),
		FlightMaxOffers:    v.GetInt("amadeus_max_offers"),
		CatalogPath:        v.GetString("catalog_path"),
		OriginHub:          strings.ToUpper(v.GetString("origin_hub")),
		OriginLabel:        v.GetString("origin_label"),
		Workers:            v.GetInt("warm_workers"),
		CacheTTL:           time.Duration(v.GetInt("cache_ttl_seconds")) * time.Second,
	}
	if !c.FlightConfigured() {
		log.Warn().Msg("AMADEUS_CLIENT_ID/AMADEUS_CLIENT_SECRET empty; flight search disabled")
	}
	return c
}

// Validate reports missing credentials that make the service unusable.
// Flight credentials are optional: without them the flight section degrades.
func (c Config) Validate() error {
	var missing []string
	if c.InventoryEmail == "" {
		missing = append(missing, "TRIPXPLO_EMAIL")
	}
	if c.InventoryPassword == "" {
		missing = append(missing, "TRIPXPLO_PASSWORD")
	}
	if len(missing) > 0 {
		return errors.New("required environment variables not set: " + strings.Join(missing, ", "))
	}
	return nil
}

func (c Config) FlightConfigured() bool {
	return c.FlightClientID != "" && c.FlightClientSecret != ""
}
