// internal/workers/kyc/kyc-document-step/config.go
package kycdocumentstep

import "time"

type Config struct {
	Timeout time.Duration
}
