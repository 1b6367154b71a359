package validation

const (
	// Fee limits, in paise
	MinCaseFeePaise = int64(50_000)      // Rs 500
	MaxCaseFeePaise = int64(100_000_000) // Rs 10 lakh

	// String lengths
	MaxSummaryLength  = 20_000
	MaxFeedbackLength = 2_000
	MaxNameLength     = 120

	// Expertise tags per practitioner
	MaxExpertiseTags = 12
)
