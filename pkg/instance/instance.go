package instance

import (
	"os"
	"strings"
)

// ID returns the process identifier reported in startup logs. DYNO wins over
// WORKER_ID; fallback is used when neither is set.
func ID(fallback string) string {
	for _, key := range []string{"DYNO", "WORKER_ID"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	return fallback
}
