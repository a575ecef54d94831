// internal/workers/disbursement/disburse-loan/config.go
package disburseloan

import "time"

type Config struct {
	Timeout time.Duration
}
