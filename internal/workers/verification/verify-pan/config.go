// internal/workers/verification/verify-pan/config.go
package verifypan

import "time"

type Config struct {
	Timeout time.Duration
}
