package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Server struct {
		ReadTimeout  int `mapstructure:"readTimeout"`
		WriteTimeout int `mapstructure:"writeTimeout"`
	} `mapstructure:"server"`
	Database struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	Seed struct {
		CustomersFile string `mapstructure:"customersFile"`
		ProductsFile  string `mapstructure:"productsFile"`
		OrdersFile    string `mapstructure:"ordersFile"`
		Parallelism   int    `mapstructure:"parallelism"`
	} `mapstructure:"seed"`
}

// LoadConfig loads the configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// A missing .env file is fine, the config file still applies
		_ = godotenv.Load(path)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "4000")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("server.readTimeout", 10)
	viper.SetDefault("server.writeTimeout", 10)
	viper.SetDefault("kafka.topic", "analytics.reseed")
	viper.SetDefault("seed.customersFile", "seed/customers.csv")
	viper.SetDefault("seed.productsFile", "seed/products.csv")
	viper.SetDefault("seed.ordersFile", "seed/orders.csv")
	viper.SetDefault("seed.parallelism", 8)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
