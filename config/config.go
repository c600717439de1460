package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	MongoURI string
	DBName   string
	Port     string

	GeminiAPIKey string

	ScrapingDogAPIKey string

	JWTSecret        string
	JWTRefreshSecret string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	AWSRegion     string
	AWSBucketName string

	SendGridAPIKey string
	EmailFromName  string
	EmailFromAddr  string

	KeepAliveURL string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	DBName = os.Getenv("DB_NAME")
	if DBName == "" {
		DBName = "zuri"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	ScrapingDogAPIKey = os.Getenv("SCRAPINGDOG_API_KEY")

	JWTSecret = os.Getenv("JWT_SECRET")
	JWTRefreshSecret = os.Getenv("JWT_REFRESH_SECRET")
	if JWTRefreshSecret == "" {
		JWTRefreshSecret = JWTSecret
	}

	GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if GoogleRedirectURL == "" {
		GoogleRedirectURL = "http://localhost:8080/auth/google/callback"
	}

	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "ap-south-1"
	}
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	EmailFromName = os.Getenv("EMAIL_FROM_NAME")
	if EmailFromName == "" {
		EmailFromName = "Zuri"
	}
	EmailFromAddr = os.Getenv("EMAIL_FROM_ADDR")
	if EmailFromAddr == "" {
		EmailFromAddr = "no-reply@zuriwear.app"
	}

	KeepAliveURL = os.Getenv("KEEP_ALIVE_URL")
}
