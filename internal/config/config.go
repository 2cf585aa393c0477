package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	JWTSecret string

	// Session token lifetimes in seconds. The long value applies when the
	// client logs in with rememberMe.
	SessionMaxAge    int
	RememberMeMaxAge int
	ResetTokenMaxAge int

	RedisURL string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string

	// FrontendURL is the base for password-reset links in mails.
	FrontendURL string

	CookieSecure bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	sessionMaxAge, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE"))
	if err != nil || sessionMaxAge <= 0 {
		sessionMaxAge = 86400 // 24h
	}

	rememberMeMaxAge, err := strconv.Atoi(os.Getenv("REMEMBER_ME_MAX_AGE"))
	if err != nil || rememberMeMaxAge <= 0 {
		rememberMeMaxAge = 2592000 // 30d
	}

	resetTokenMaxAge, err := strconv.Atoi(os.Getenv("RESET_TOKEN_MAX_AGE"))
	if err != nil || resetTokenMaxAge <= 0 {
		resetTokenMaxAge = 900 // 15m
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "3000"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	cookieSecure, _ := strconv.ParseBool(os.Getenv("COOKIE_SECURE"))

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,

		ServerPort: serverPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		SessionMaxAge:    sessionMaxAge,
		RememberMeMaxAge: rememberMeMaxAge,
		ResetTokenMaxAge: resetTokenMaxAge,

		RedisURL: redisURL,

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: os.Getenv("SMTP_PORT"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: os.Getenv("MAIL_FROM"),

		FrontendURL: frontendURL,

		CookieSecure: cookieSecure,
	}, nil
}
