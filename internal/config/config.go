package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	DBPath          string `mapstructure:"DB_PATH"`
	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	BaseURL         string `mapstructure:"BASE_URL"`
	ListingAPIURL   string `mapstructure:"LISTING_API_URL"`
	DetailAPIURL    string `mapstructure:"DETAIL_API_URL"`
	CrawlMode       string `mapstructure:"CRAWL_MODE"`
	CrawlOnStart    bool   `mapstructure:"CRAWL_ON_START"`
	PageDelayMs     int    `mapstructure:"PAGE_DELAY_MS"`
	NavTimeout      int    `mapstructure:"NAV_TIMEOUT"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS"`
}

// Crawl modes. ModeListing paginates each category through the listing
// API; ModeDeep renders each category page and reads the embedded payload.
const (
	ModeListing = "listing"
	ModeDeep    = "deep"
)

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = viper.ReadInConfig()

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_PATH", "data/products.db")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("BASE_URL", "https://shop-id.tokopedia.com")
	viper.SetDefault("LISTING_API_URL", "https://shop-id.tokopedia.com/api/shop/id/home/product_list")
	viper.SetDefault("DETAIL_API_URL", "https://shop-id.tokopedia.com/api/shop/product/pdp_data")
	viper.SetDefault("CRAWL_MODE", ModeListing)
	viper.SetDefault("CRAWL_ON_START", true)
	viper.SetDefault("PAGE_DELAY_MS", 1000) // polite delay between listing pages
	viper.SetDefault("NAV_TIMEOUT", 60)     // in seconds
	viper.SetDefault("CACHE_TTL_SECONDS", 300)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PageDelay returns the inter-page delay as a duration.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMs) * time.Millisecond
}

// CacheTTL returns the cache time-to-live as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
