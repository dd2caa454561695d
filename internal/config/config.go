package config

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

var AppEnv App

type App struct {
	Config
	LocationConfig
	DispatchConfig
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port int `env:"SERVER_PORT,required"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST,required"`
	Port     int    `env:"DB_PORT,required"`
	User     string `env:"DB_USER,required"`
	Password string `env:"DB_PASSWORD,required"`
	Name     string `env:"DB_NAME,required"`
}

type RedisConfig struct {
	Host string `env:"REDIS_HOST,required"`
	Port int    `env:"REDIS_PORT,required"`
}

type LocationConfig struct {
	// ProviderURL is the base URL of the companion location provider,
	// e.g. http://localhost:7979.
	ProviderURL string `env:"LOCATION_PROVIDER_URL,required"`
	BatteryPath string `env:"BATTERY_CAPACITY_PATH,default=/sys/class/power_supply/battery/capacity"`
	TorchPath   string `env:"TORCH_DEVICE_PATH,default=/sys/class/leds/torch/brightness"`
}

type DispatchConfig struct {
	// Platform overrides runtime.GOOS for the deep-link opener strategy.
	Platform string `env:"DISPATCH_PLATFORM"`
	// StatusTTLSeconds is how long a transient status message stays visible.
	StatusTTLSeconds int `env:"STATUS_TTL_SECONDS,default=3"`
}

func ReadEnvironment(ctx context.Context) *App {
	_ = godotenv.Load()
	err := envconfig.Process(ctx, &AppEnv)
	if err != nil {
		log.Fatalf("Error processing environment variables: %v", err)
	}

	return &AppEnv
}
