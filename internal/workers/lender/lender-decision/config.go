// internal/workers/lender/lender-decision/config.go
package lenderdecision

import "time"

type Config struct {
	Timeout time.Duration
}
