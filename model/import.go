package model

// ImportReport aggregates the outcome of a bulk member import. Rows fail
// independently: one bad row is recorded here and the rest keep going.
type ImportReport struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}
