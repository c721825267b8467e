package chexport

// Profile describes the column layout of one client-list CSV format.
// Adding a new source system is just adding a new Profile to the profiles
// slice.
type Profile struct {
	Name       string
	Comma      rune
	DateLayout string

	NameCol          string
	NumberCol        string
	CategoryCol      string
	IncorporationCol string
	RefDayCol        string
	RefMonthCol      string
	LastAccountsCol  string
	NextMadeUpToCol  string
	VATStaggerCol    string
}

// requiredCols returns the column names that must be present for this
// profile to match. Optional columns (VAT stagger, next made-up-to) are not
// part of the match.
func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.NumberCol, p.IncorporationCol}
}

// profiles is the ordered list of export formats to try during
// auto-detection. More specific profiles come first.
var profiles = []Profile{
	{
		Name:             "companies_house",
		Comma:            ',',
		DateLayout:       "02/01/2006",
		NameCol:          "CompanyName",
		NumberCol:        "CompanyNumber",
		CategoryCol:      "CompanyCategory",
		IncorporationCol: "IncorporationDate",
		RefDayCol:        "Accounts.AccountRefDay",
		RefMonthCol:      "Accounts.AccountRefMonth",
		LastAccountsCol:  "Accounts.LastMadeUpDate",
		NextMadeUpToCol:  "Accounts.NextMadeUpDate",
	},
	{
		Name:             "practice",
		Comma:            ',',
		DateLayout:       "02/01/2006",
		NameCol:          "Client Name",
		NumberCol:        "Company No",
		CategoryCol:      "Client Type",
		IncorporationCol: "Incorporated",
		LastAccountsCol:  "Last Year End",
		VATStaggerCol:    "VAT Stagger",
	},
}
