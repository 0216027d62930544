package types

// ImportResult is the structured outcome of one import run. Errors holds at
// most the first ten row messages; ErrorRows keeps the full count.
type ImportResult struct {
	TotalRows           int      `json:"total_rows"`
	SuccessRows         int      `json:"success_rows"`
	ErrorRows           int      `json:"error_rows"`
	CreatedPeople       int      `json:"created_people"`
	CreatedTransactions int      `json:"created_transactions"`
	Errors              []string `json:"errors"`
}

// GroupingResult is the structured outcome of one grouping run.
type GroupingResult struct {
	HouseholdsCreated int `json:"households_created"`
	PeopleGrouped     int `json:"people_grouped"`
}
