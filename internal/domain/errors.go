package domain

import "errors"

var (
	// ErrSiteNotFound signals an unknown site property.
	ErrSiteNotFound = errors.New("site not found")
	// ErrInvalidDateRange signals a start date after the end date.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrInvalidGroupBy signals an unsupported aggregation grouping.
	ErrInvalidGroupBy = errors.New("invalid group_by")
	// ErrSyncNotFound signals that no sync record exists for the site.
	ErrSyncNotFound = errors.New("sync record not found")
)
