package domain

type PageStatus string

func (s PageStatus) String() string {
	return string(s)
}

const (
	PageStatusFetched PageStatus = "fetched" // Rows extracted and appended
	PageStatusSkipped PageStatus = "skipped" // Fetch budget exhausted, nothing appended
	PageStatusEmpty   PageStatus = "empty"   // No rows, walk terminated
)

// PageSummary describes what happened at one visited offset.
type PageSummary struct {
	Offset int        `json:"offset"`
	Status PageStatus `json:"status"`
	Rows   int        `json:"rows"`
}

// WalkResult is everything a catalog walk produced.
type WalkResult struct {
	Records ResultSet     `json:"records"`
	Pages   []PageSummary `json:"pages"`
}

func (r *WalkResult) SkippedPages() int {
	skipped := 0
	for _, p := range r.Pages {
		if p.Status == PageStatusSkipped {
			skipped++
		}
	}
	return skipped
}
