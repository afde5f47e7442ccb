package consts

// Character sets
const (
	Number     = "0123456789"                 // Numbers
	Lowercase  = "abcdefghijklmnopqrstuvwxyz" // Lowercase letters
	Uppercase  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" // Uppercase letters
	Special    = "@$!%*?&"                    // Symbols accepted by the password rules
	LowerUpper = Lowercase + Uppercase        // Lowercase + Uppercase letters
	All        = Number + LowerUpper + Special
)

const (
	// TempPasswordSize is the length of an admin-issued temporary password
	TempPasswordSize = 12
	// DemoIDSize is the length of ids assigned to accounts created offline
	DemoIDSize = 10
)
