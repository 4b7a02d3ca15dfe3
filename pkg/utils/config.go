package utils

import (
	"os"
	"strconv"
)

type ServerConfig struct {
	Host string
	Port int
}

func LoadServerConfig() ServerConfig {
	host := os.Getenv("CEMETERYHUB_HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	port := 8080
	if p := os.Getenv("CEMETERYHUB_PORT"); p != "" {
		// if parse fails, keep the default
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	return ServerConfig{
		Host: host,
		Port: port,
	}
}
