// internal/workers/agreement/verify-esign-otp/config.go
package verifyesignotp

import "time"

type Config struct {
	Timeout time.Duration
}
