package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Posting settings
	TaxRate          decimal.Decimal // Flat rate applied to the sale subtotal
	DiscountRate     decimal.Decimal // Flat rate applied to the sale subtotal
	SalesAccountCode string          // Chart-of-accounts code credited by sales
	InventoryAccount string          // Chart-of-accounts code debited by purchases
	PostingRetries   int             // Attempts for a sale posting hitting stock conflicts

	// HTTP settings
	RateLimit          string // ulule/limiter formatted rate, e.g. "120-M"
	CORSAllowedOrigins []string

	// Scheduler settings
	ReconcileCronSpec string
	LowStockCronSpec  string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("TAX_RATE", "0.0")
	viper.SetDefault("DISCOUNT_RATE", "0.0")
	viper.SetDefault("SALES_ACCOUNT_CODE", "4.1.1")
	viper.SetDefault("INVENTORY_ACCOUNT_CODE", "1.1.3")
	viper.SetDefault("POSTING_MAX_RETRIES", 3)
	viper.SetDefault("RATE_LIMIT", "120-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RECONCILE_CRON_SPEC", "*/15 * * * *")
	viper.SetDefault("LOW_STOCK_CRON_SPEC", "0 7 * * *")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	taxRateStr := viper.GetString("TAX_RATE")
	taxRate, err := decimal.NewFromString(taxRateStr)
	if err != nil || taxRate.IsNegative() {
		taxRate = decimal.Zero
		log.Printf("Warning: Invalid value for TAX_RATE ('%s'). Defaulting to 0.\n", taxRateStr)
	}

	discountRateStr := viper.GetString("DISCOUNT_RATE")
	discountRate, err := decimal.NewFromString(discountRateStr)
	if err != nil || discountRate.IsNegative() {
		discountRate = decimal.Zero
		log.Printf("Warning: Invalid value for DISCOUNT_RATE ('%s'). Defaulting to 0.\n", discountRateStr)
	}

	postingRetries := viper.GetInt("POSTING_MAX_RETRIES")
	if postingRetries < 1 {
		postingRetries = 3
		log.Printf("Warning: POSTING_MAX_RETRIES must be at least 1. Defaulting to %d.\n", postingRetries)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.TaxRate = taxRate
	cfg.DiscountRate = discountRate
	cfg.SalesAccountCode = viper.GetString("SALES_ACCOUNT_CODE")
	cfg.InventoryAccount = viper.GetString("INVENTORY_ACCOUNT_CODE")
	cfg.PostingRetries = postingRetries
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")
	cfg.ReconcileCronSpec = viper.GetString("RECONCILE_CRON_SPEC")
	cfg.LowStockCronSpec = viper.GetString("LOW_STOCK_CRON_SPEC")

	return cfg, nil
}
