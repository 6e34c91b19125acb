package redisx

import "time"

const (
	// Product list cache: catalog:products:{category_slug|all} -> JSON array
	KeyProductList = "catalog:products:%s"

	// Admin session token: admin:session:{token} -> "1"
	KeyAdminSession = "admin:session:%s"

	// Dedup event processing in the stock worker: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLProductCache = 5 * time.Minute
	TTLAdminSession = 12 * time.Hour
	TTLDedup        = 48 * time.Hour
)
