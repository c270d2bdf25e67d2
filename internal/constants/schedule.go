package constants

const (
	// Full range of hours addressable by the hourly grid (5 AM to 11 PM)
	FirstGridHour = 5
	LastGridHour  = 23

	// Default visible hours start at 7 AM
	DefaultVisibleStartHour = 7

	// Schedule configuration bounds
	MinStartHour     = 5
	MaxStartHour     = 11
	MinEndHour       = 12
	MaxEndHour       = 23
	DefaultStartHour = 7
	DefaultEndHour   = 23

	// Half-hour buckets within an hour
	MinuteTop  = "00"
	MinuteHalf = "30"
)
