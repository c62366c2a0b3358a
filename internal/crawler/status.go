package crawler

// Status is the terminal outcome of a crawl.
type Status int

const (
	// StatusExhausted: the pagination control could not be clicked, taken as
	// the last page.
	StatusExhausted Status = iota
	// StatusPageLimitReached: crawler.max_pages pages were consumed.
	StatusPageLimitReached
	// StatusRetryLimitReached: crawler.retry_times consecutive empty pages.
	StatusRetryLimitReached
	// StatusNoReviewsView: the reviews view could never be opened.
	StatusNoReviewsView
	// StatusCancelled: the context was cancelled mid-crawl.
	StatusCancelled
	// StatusFailed: the product page could not be loaded.
	StatusFailed
)

var statusNames = map[Status]string{
	StatusExhausted:         "EXHAUSTED",
	StatusPageLimitReached:  "PAGE_LIMIT_REACHED",
	StatusRetryLimitReached: "RETRY_LIMIT_REACHED",
	StatusNoReviewsView:     "NO_REVIEWS_VIEW",
	StatusCancelled:         "CANCELLED",
	StatusFailed:            "FAILED",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Complete reports whether the crawl ended normally (last page or page cap).
func (s Status) Complete() bool {
	return s == StatusExhausted || s == StatusPageLimitReached
}

// State is a non-terminal step of the pagination loop.
type State int

const (
	StateFetching State = iota
	StateSuccessPage
	StateEmptyPage
	StateAdvancing
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "FETCHING"
	case StateSuccessPage:
		return "SUCCESS_PAGE"
	case StateEmptyPage:
		return "EMPTY_PAGE"
	case StateAdvancing:
		return "ADVANCING"
	default:
		return "UNKNOWN"
	}
}
