package cli

import (
	"os"
	"time"
)

func lookupEnv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}
