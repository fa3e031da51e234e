package env

import (
	"os"
)

// PodName is the kubernetes pod name, falling back to the host name outside a cluster
func PodName() string {
	if name := os.Getenv("PODNAME"); name != "" {
		return name
	}
	name, _ := os.Hostname()
	return name
}

// Lookup returns the environment variable key, or fallback when it is unset
func Lookup(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
