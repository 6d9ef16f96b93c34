package target

import (
	"time"
)

// Prediction is the outcome of one query molecule as shipped to external
// consumers.
type Prediction struct {
	RunID     string    `json:"run_id"`
	Molecule  string    `json:"molecule"`
	Rows      []Row     `json:"rows"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Failed reports whether scoring of the molecule failed.
func (p *Prediction) Failed() bool {
	return p.Error != ""
}

//Personal.AI order the ending
