package config

import (
	"github.com/spf13/viper"
)

// Configuration comes from environment variables (the service is expected to
// run with DB and queue settings injected by the deployment); the defaults
// match the local docker-compose setup.

type Config struct {
	DBHost             string `mapstructure:"DB_HOST"`
	DBPort             string `mapstructure:"DB_PORT"`
	DBUser             string `mapstructure:"DB_USER"`
	DBPassword         string `mapstructure:"DB_PASSWORD"`
	DBName             string `mapstructure:"DB_NAME"`
	ServerPort         string `mapstructure:"SERVER_PORT"`
	AWSRegion          string `mapstructure:"AWS_REGION"`
	SummarySQSQueueURL string `mapstructure:"SUMMARY_SQS_QUEUE_URL"`
	EmailSender        string `mapstructure:"EMAIL_SENDER"`
	EmailDomain        string `mapstructure:"EMAIL_DOMAIN"`
	AWSEndpoint        string `mapstructure:"AWS_ENDPOINT"`
	OTLPEndpoint       string `mapstructure:"OTLP_ENDPOINT"`
	IsLocalDev         bool   `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "worktime_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "us-east-1") // Default region for AWS services
	viper.SetDefault("SUMMARY_SQS_QUEUE_URL", "http://localstack:4566/000000000000/summary-queue")
	viper.SetDefault("EMAIL_SENDER", "no-reply@worktime.local")
	viper.SetDefault("EMAIL_DOMAIN", "worktime.local")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("OTLP_ENDPOINT", "jaeger:4317")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
