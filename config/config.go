package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config carries everything the handlers need: the shared mongo client
// and the settings read once at startup.
type Config struct {
	Port        string
	MongoClient *mongo.Client
	DBName      string

	JWTSecret     string
	JWTExpMinutes int

	// Origins allowed to call the payment-order endpoint.
	AllowedOrigins []string

	RazorpayKeyID     string
	RazorpayKeySecret string

	// Sweep interval of the mail dispatcher.
	MailDispatchInterval time.Duration
}

// Load reads the environment (.env honored when present), connects to
// MongoDB and verifies the connection.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		DBName:               getenv("MONGO_DB", "registration"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTExpMinutes:        60,
		RazorpayKeyID:        os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:    os.Getenv("RAZORPAY_KEY_SECRET"),
		MailDispatchInterval: 30 * time.Second,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set in env")
	}

	if v := os.Getenv("JWT_EXP_MIN"); v != "" {
		if mins, err := strconv.Atoi(v); err == nil {
			cfg.JWTExpMinutes = mins
		}
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}
	// The payment-order route is CORS-gated; an empty allow-list would
	// make cors.New panic at startup.
	if len(cfg.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("ALLOWED_ORIGINS not set in env")
	}

	if v := os.Getenv("MAIL_DISPATCH_INTERVAL_SEC"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.MailDispatchInterval = time.Duration(secs) * time.Second
		}
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI not set in env")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	cfg.MongoClient = client

	return cfg, nil
}

// DB returns the application database handle.
func (c *Config) DB() *mongo.Database {
	return c.MongoClient.Database(c.DBName)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
