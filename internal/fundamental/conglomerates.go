package fundamental

// conglomerateTags maps emiten codes to their industrial group. Codes
// absent from the table carry no tag.
var conglomerateTags = map[string]string{
	// Astra group
	"ASII": "Astra",
	"UNTR": "Astra",
	"ASLC": "Astra",

	// Salim group
	"INDF": "Salim",
	"ICBP": "Salim",

	// State-owned enterprises
	"BBRI": "BUMN",
	"BMRI": "BUMN",
	"BBNI": "BUMN",
	"TLKM": "BUMN",
	"PGAS": "BUMN",
	"PTBA": "BUMN",
	"ANTM": "BUMN",
	"TINS": "BUMN",

	// Bakrie group
	"BUMI": "Bakrie",
	"DEWA": "Bakrie",
	"ENRG": "Bakrie",
	"BRMS": "Bakrie",

	// GoTo ecosystem
	"GOTO": "Goto",
	"ARTO": "Goto",

	// Djarum group
	"BBCA": "Djarum",

	// Sinarmas group
	"FREN": "Sinarmas",
}
