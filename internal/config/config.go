// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Planning PlanningConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	// Driver is the database/sql driver name: "pgx" (default) or "postgres" (lib/pq).
	Driver   string
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

type PlanningConfig struct {
	LookbackDays        int
	HorizonDays         int
	SafetyFactor        float64
	OrderCost           float64
	HoldingCostRate     float64
	TargetServiceLevel  float64
	StockoutCostFactor  float64
	DefaultLeadTimeDays int
	Workers             int
	ScenariosFile       string
	HonorLeadTime       bool
	NoiseSeed           uint64
}

type GeneratorConfig struct {
	Seed         uint64
	Suppliers    int
	Items        int
	Transactions int
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()

		// Read from environment variables
		viper.AutomaticEnv()

		instance = build()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("DB_DRIVER", "pgx")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "stockplan")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL_SECONDS", 3600)

	viper.SetDefault("STORAGE_ENABLED", false)
	viper.SetDefault("STORAGE_ENDPOINT", "")
	viper.SetDefault("STORAGE_ACCESS_KEY", "")
	viper.SetDefault("STORAGE_SECRET_KEY", "")
	viper.SetDefault("STORAGE_BUCKET", "")
	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_USE_SSL", true)
	viper.SetDefault("STORAGE_PREFIX", "planning-runs")

	viper.SetDefault("PLANNING_LOOKBACK_DAYS", 90)
	viper.SetDefault("PLANNING_HORIZON_DAYS", 30)
	viper.SetDefault("PLANNING_SAFETY_FACTOR", 1.65)
	viper.SetDefault("PLANNING_ORDER_COST", 50.0)
	viper.SetDefault("PLANNING_HOLDING_COST_RATE", 0.25)
	viper.SetDefault("PLANNING_TARGET_SERVICE_LEVEL", 0.95)
	viper.SetDefault("PLANNING_STOCKOUT_COST_FACTOR", 1.5)
	viper.SetDefault("PLANNING_DEFAULT_LEAD_TIME_DAYS", 7)
	viper.SetDefault("PLANNING_WORKERS", runtime.NumCPU())
	viper.SetDefault("PLANNING_SCENARIOS_FILE", "")
	viper.SetDefault("PLANNING_HONOR_LEAD_TIME", false)
	viper.SetDefault("PLANNING_NOISE_SEED", 42)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")
}

func build() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			URL:      viper.GetString("DATABASE_URL"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Cache: CacheConfig{
			Enabled:       viper.GetBool("CACHE_ENABLED"),
			RedisURL:      viper.GetString("REDIS_URL"),
			RedisHost:     viper.GetString("REDIS_HOST"),
			RedisPort:     viper.GetString("REDIS_PORT"),
			RedisPassword: viper.GetString("REDIS_PASSWORD"),
			RedisDB:       viper.GetInt("REDIS_DB"),
			TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   viper.GetBool("STORAGE_ENABLED"),
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Region:    viper.GetString("STORAGE_REGION"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			Prefix:    viper.GetString("STORAGE_PREFIX"),
		},
		Planning: PlanningConfig{
			LookbackDays:        viper.GetInt("PLANNING_LOOKBACK_DAYS"),
			HorizonDays:         viper.GetInt("PLANNING_HORIZON_DAYS"),
			SafetyFactor:        viper.GetFloat64("PLANNING_SAFETY_FACTOR"),
			OrderCost:           viper.GetFloat64("PLANNING_ORDER_COST"),
			HoldingCostRate:     viper.GetFloat64("PLANNING_HOLDING_COST_RATE"),
			TargetServiceLevel:  viper.GetFloat64("PLANNING_TARGET_SERVICE_LEVEL"),
			StockoutCostFactor:  viper.GetFloat64("PLANNING_STOCKOUT_COST_FACTOR"),
			DefaultLeadTimeDays: viper.GetInt("PLANNING_DEFAULT_LEAD_TIME_DAYS"),
			Workers:             viper.GetInt("PLANNING_WORKERS"),
			ScenariosFile:       viper.GetString("PLANNING_SCENARIOS_FILE"),
			HonorLeadTime:       viper.GetBool("PLANNING_HONOR_LEAD_TIME"),
			NoiseSeed:           viper.GetUint64("PLANNING_NOISE_SEED"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
}

// DSN returns the connection string for the configured database.
// An explicit URL wins over the discrete host/port settings.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DriverName returns the database/sql driver to open connections with.
func (c DatabaseConfig) DriverName() string {
	switch c.Driver {
	case "postgres", "pq":
		return "postgres"
	default:
		return "pgx"
	}
}

// Validate reports planning settings that would make the formulas meaningless.
func (p PlanningConfig) Validate() error {
	switch {
	case p.LookbackDays <= 0:
		return fmt.Errorf("PLANNING_LOOKBACK_DAYS must be positive, got %d", p.LookbackDays)
	case p.HorizonDays <= 0:
		return fmt.Errorf("PLANNING_HORIZON_DAYS must be positive, got %d", p.HorizonDays)
	case p.SafetyFactor < 0:
		return fmt.Errorf("PLANNING_SAFETY_FACTOR must not be negative, got %v", p.SafetyFactor)
	case p.OrderCost <= 0:
		return fmt.Errorf("PLANNING_ORDER_COST must be positive, got %v", p.OrderCost)
	case p.HoldingCostRate <= 0:
		return fmt.Errorf("PLANNING_HOLDING_COST_RATE must be positive, got %v", p.HoldingCostRate)
	case p.TargetServiceLevel <= 0 || p.TargetServiceLevel > 1:
		return fmt.Errorf("PLANNING_TARGET_SERVICE_LEVEL must be in (0, 1], got %v", p.TargetServiceLevel)
	case p.DefaultLeadTimeDays <= 0:
		return fmt.Errorf("PLANNING_DEFAULT_LEAD_TIME_DAYS must be positive, got %d", p.DefaultLeadTimeDays)
	}
	return nil
}

// DefaultPlanning returns the planning settings used when no environment is loaded.
func DefaultPlanning() PlanningConfig {
	return PlanningConfig{
		LookbackDays:        90,
		HorizonDays:         30,
		SafetyFactor:        1.65,
		OrderCost:           50,
		HoldingCostRate:     0.25,
		TargetServiceLevel:  0.95,
		StockoutCostFactor:  1.5,
		DefaultLeadTimeDays: 7,
		Workers:             runtime.NumCPU(),
		NoiseSeed:           42,
	}
}

// DefaultGenerator mirrors the volumes of the demo data set: 15 suppliers,
// 500 items and roughly 10k transactions over the lookback window.
func DefaultGenerator() GeneratorConfig {
	return GeneratorConfig{
		Seed:         42,
		Suppliers:    15,
		Items:        500,
		Transactions: 10000,
	}
}
