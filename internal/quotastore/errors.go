package quotastore

import "errors"

// Quota errors carry the names the browser storage API uses,
// so callers matching on the message keep working.
var (
	// ErrQuotaBytes indicates that the write would exceed the total byte quota
	ErrQuotaBytes = errors.New("QUOTA_BYTES quota exceeded")

	// ErrQuotaBytesPerItem indicates that a single item exceeds the per-item quota
	ErrQuotaBytesPerItem = errors.New("QUOTA_BYTES_PER_ITEM quota exceeded")

	// ErrMaxItems indicates that the write would exceed the item count limit
	ErrMaxItems = errors.New("MAX_ITEMS quota exceeded")

	// ErrStoreClosed indicates that the store is closed
	ErrStoreClosed = errors.New("store is closed")
)
