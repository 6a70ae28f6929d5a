package provider

import "time"

// SetRetryBaseDelay overrides the backoff base so tests exercising retry
// exhaustion don't sleep through real vendor-scale delays.
func (ib *IBKR) SetRetryBaseDelay(d time.Duration) { ib.retryDelay = d }
