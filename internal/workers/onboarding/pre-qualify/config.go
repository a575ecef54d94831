// internal/workers/onboarding/pre-qualify/config.go
package prequalify

import "time"

type Config struct {
	Timeout time.Duration
}
