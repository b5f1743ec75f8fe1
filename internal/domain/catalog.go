package domain

// Record is one catalog entry extracted from a listing row.
type Record struct {
	EntityID      string   `json:"entityId"`
	Name          string   `json:"name"`
	URL           string   `json:"url"`
	RemoteTesting bool     `json:"remoteTesting"`
	AdaptiveIRT   bool     `json:"adaptiveIrt"`
	TestTypes     []string `json:"testTypes"`
}

// ResultSet is every record of a run in page-then-row order.
type ResultSet []Record

type CatalogPage struct {
	Offset  int      `json:"offset"`   // Value of the start query parameter
	Records []Record `json:"records"`  // Rows on this page, in markup order
	HasNext bool     `json:"has_next"` // Whether a next-page control was present
}
