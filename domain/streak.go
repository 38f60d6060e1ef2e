package domain

// Streak counts consecutive days with recorded study activity. LastStudyDate
// is the ISO calendar date the counter was last stamped on, empty before any
// activity was recorded.
type Streak struct {
	Days          int    `json:"days"`
	LastStudyDate string `json:"lastStudyDate,omitempty"`
}
