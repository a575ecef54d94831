// internal/workers/offers/select-offer/config.go
package selectoffer

import "time"

type Config struct {
	Timeout time.Duration
}
