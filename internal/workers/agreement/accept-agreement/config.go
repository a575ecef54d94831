// internal/workers/agreement/accept-agreement/config.go
package acceptagreement

import "time"

type Config struct {
	Timeout time.Duration
}
