package hermes

import "time"

type CategoryWeights struct {
	Category string `json:"category"`
	Weights  []int  `json:"weights"`
}

type SWOTSeededEvent struct {
	UnitID     string            `json:"unit_id"`
	UnitCode   string            `json:"unit_code"`
	Year       int               `json:"year"`
	Categories []CategoryWeights `json:"categories"`
	Timestamp  time.Time         `json:"timestamp"`
}

type SWOTRebalancedEvent struct {
	UnitID    string    `json:"unit_id"`
	Year      int       `json:"year"`
	Category  string    `json:"category"`
	OldTotal  int       `json:"old_total"`
	Weights   []int     `json:"weights"`
	Timestamp time.Time `json:"timestamp"`
}

type SeedRunCompletedEvent struct {
	Year      int       `json:"year"`
	Seeded    int       `json:"seeded"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`
}
