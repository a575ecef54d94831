// internal/workers/onboarding/start-journey/config.go
package startjourney

import "time"

type Config struct {
	Timeout time.Duration
}
