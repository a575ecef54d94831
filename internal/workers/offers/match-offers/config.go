// internal/workers/offers/match-offers/config.go
package matchoffers

import "time"

type Config struct {
	Timeout time.Duration
}
