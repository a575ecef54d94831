// internal/workers/agreement/setup-nach-mandate/config.go
package setupnachmandate

import "time"

type Config struct {
	Timeout time.Duration
}
