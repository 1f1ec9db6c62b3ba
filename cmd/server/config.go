package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// config is the process's startup configuration, read from the
// environment (with .env loaded first by godotenv, teacher-style: no
// generic config framework, just os.Getenv with defaults).
type config struct {
	Addr               string
	DatabaseURL        string
	JWTSigningKey      []byte
	JWTRefreshKey      []byte
	JWTAlg             jwt.SigningMethod
	SubscriberQueueCap int
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:          getEnv("ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: []byte(getEnv("JWT_SIGNING_KEY", "")),
		JWTRefreshKey: []byte(getEnv("JWT_REFRESH_KEY", "")),
	}

	alg, err := parseJWTAlg(getEnv("JWT_ALG", "HS256"))
	if err != nil {
		return config{}, err
	}
	cfg.JWTAlg = alg

	queueCap, err := strconv.Atoi(getEnv("SUBSCRIBER_QUEUE_CAP", "256"))
	if err != nil || queueCap <= 0 {
		return config{}, fmt.Errorf("SUBSCRIBER_QUEUE_CAP must be a positive integer")
	}
	cfg.SubscriberQueueCap = queueCap

	if len(cfg.JWTSigningKey) == 0 || len(cfg.JWTRefreshKey) == 0 {
		return config{}, fmt.Errorf("JWT_SIGNING_KEY and JWT_REFRESH_KEY must both be set")
	}

	return cfg, nil
}

func parseJWTAlg(name string) (jwt.SigningMethod, error) {
	switch name {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported JWT_ALG %q: must be one of HS256, HS384, HS512", name)
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
