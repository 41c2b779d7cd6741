package domain

// DocumentSummary is the derived latest-state view of one tracked object.
// It is recomputed from the full entry set on every read and never persisted.
type DocumentSummary struct {
	ObjectID        string `json:"ricefwId"`
	DocumentName    string `json:"fsName"`
	TransactionCode string `json:"transactionCode"`
	Region          string `json:"region"`
	Uploaded        bool   `json:"uploaded"`
	CurrentVersion  string `json:"currentVersion"`
	LastRelease     string `json:"lastRelease"`
	DocumentDate    int64  `json:"documentDate"`
	LastUpdated     int64  `json:"lastUpdated"`

	// HistoryCount is the number of entries ever recorded for the object.
	HistoryCount int `json:"historyCount"`
	// LatestEntryID identifies the entry whose uploaded flag reflects
	// current truth; status patches target an entry, not the summary.
	LatestEntryID string `json:"latestEntryId"`
}
