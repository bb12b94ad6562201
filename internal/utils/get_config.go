package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	LogMode      string `yaml:"LOG_MODE"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET"`
	JWTTTLMinutes int    `yaml:"JWT_TTL_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`

	// Redis, used as rate limiter storage when set
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppPort:       "8000",
		AppURL:        "http://localhost:8000",
		LogMode:       "dev",
		RateLimitMax:  20,
		DBHost:        "localhost",
		DBPort:        "5432",
		JWTTTLMinutes: 24 * 60,
		AWSS3Region:   "us-east-1",
	}
}

// LoadConfig reads config.yaml, then lets .env and the process environment
// override individual keys.
func LoadConfig() {
	config = defaultConfig()

	file, err := os.ReadFile("config.yaml")
	if err == nil {
		if err := yaml.Unmarshal(file, &config); err != nil {
			log.Printf("Error parsing YAML file: %s\n", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Error reading YAML file: %s\n", err)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %s\n", err)
	}

	overrideString(&config.AppPort, "APP_PORT")
	overrideString(&config.AppURL, "APP_URL")
	overrideString(&config.LogMode, "LOG_MODE")
	overrideInt(&config.RateLimitMax, "RATE_LIMIT_MAX")
	overrideString(&config.DBUser, "DB_USER")
	overrideString(&config.DBName, "DB_NAME")
	overrideString(&config.DBPassword, "DB_PASSWORD")
	overrideString(&config.DBPort, "DB_PORT")
	overrideString(&config.DBHost, "DB_HOST")
	overrideString(&config.JWTSecret, "JWT_SECRET")
	overrideInt(&config.JWTTTLMinutes, "JWT_TTL_MINUTES")
	overrideString(&config.SMTPHost, "SMTP_HOST")
	overrideString(&config.SMTPPort, "SMTP_PORT")
	overrideString(&config.SMTPSenderName, "SMTP_SENDER_NAME")
	overrideString(&config.SMTPAuthEmail, "SMTP_AUTH_EMAIL")
	overrideString(&config.SMTPAuthPassword, "SMTP_AUTH_PASSWORD")
	overrideString(&config.AWSS3Bucket, "AWS_S3_BUCKET")
	overrideString(&config.AWSS3Region, "AWS_S3_REGION")
	overrideString(&config.AWSS3Endpoint, "AWS_S3_ENDPOINT")
	overrideString(&config.AWSAccessKey, "AWS_ACCESS_KEY")
	overrideString(&config.AWSSecretKey, "AWS_SECRET_KEY")
	overrideString(&config.RedisAddr, "REDIS_ADDR")
	overrideString(&config.RedisPassword, "REDIS_PASSWORD")
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring non-numeric %s=%q\n", key, v)
		return
	}
	*dst = n
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "LOG_MODE":
		return config.LogMode
	case "RATE_LIMIT_MAX":
		return strconv.Itoa(config.RateLimitMax)
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_MINUTES":
		return strconv.Itoa(config.JWTTTLMinutes)
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "REDIS_ADDR":
		return config.RedisAddr
	case "REDIS_PASSWORD":
		return config.RedisPassword
	default:
		return ""
	}
}

// GetConfigInt returns a numeric key, or def when the key is unset or not a number.
func GetConfigInt(key string, def int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
