package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	GinMode    string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// Base URL the emailed reset link points at, typically the frontend
	// route that collects the new password.
	ResetURLBase string

	AdminFirstName string
	AdminLastName  string
	AdminEmail     string
	AdminPassword  string

	CloudinaryURL string
}

func Load() *Config {
	// A missing .env is fine; real environment variables win either way.
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "taskuser"),
		DBPassword: getEnv("DB_PASSWORD", "taskpassword"),
		DBName:     getEnv("DB_NAME", "task_manager"),
		JWTSecret:  getEnv("JWT_SECRET", "default-secret-key-change-me"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@taskhive.local"),

		ResetURLBase: getEnv("RESET_URL_BASE", "http://localhost:3000/reset-password"),

		AdminFirstName: getEnv("ADMIN_FIRST_NAME", "Default"),
		AdminLastName:  getEnv("ADMIN_LAST_NAME", "Admin"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@taskhive.local"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "ChangeMe@1234"),

		CloudinaryURL: getEnv("CLOUDINARY_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
