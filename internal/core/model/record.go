package model

// GroundTruth is the optional human label attached to a pending record.
type GroundTruth string

const (
	GroundTruthSame      GroundTruth = "same"
	GroundTruthDifferent GroundTruth = "different"
	GroundTruthUnlabeled GroundTruth = ""
)

// Candidate is one side of a comparison: a single entity description as it
// appears in the dataset.
type Candidate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Link    string `json:"link,omitempty"`
}

// PendingRecord is one comparison unit that does not yet carry a
// classification result. Row is the 1-based sheet row the record was read
// from; result writes target the same row.
type PendingRecord struct {
	Row         int         `json:"row"`
	Left        Candidate   `json:"left"`
	Right       Candidate   `json:"right"`
	Proximity   *float64    `json:"proximity,omitempty"` // numeric hint, e.g. meters apart
	GroundTruth GroundTruth `json:"ground_truth,omitempty"`
}
