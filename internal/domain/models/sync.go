package models

// BatchSummary counts what an import pass did before it finished or halted.
type BatchSummary struct {
	Total     int
	Processed int
	Skipped   int
}

type MirrorResult struct {
	Total    int
	Inserted int
	Updated  int
}

type ClubTotals struct {
	ClubGroup      string
	City           string
	Quantity       int
	Fines          float64
	SuspensionDays int
}

type Report struct {
	Kind   SanctionKind
	Source string
	Rows   []ClubTotals
	Totals ClubTotals
}
