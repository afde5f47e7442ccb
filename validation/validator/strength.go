package validator

// Strength grades a password on a 0-6 scale
type Strength struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var strengthLevels = [...]Strength{
	{0, "Very Weak", "#dc3545"},
	{1, "Weak", "#fd7e14"},
	{2, "Fair", "#ffc107"},
	{3, "Good", "#20c997"},
	{4, "Strong", "#28a745"},
	{5, "Very Strong", "#007bff"},
	{6, "Excellent", "#6f42c1"},
}

// PasswordStrength scores one point each for length >= 8, length >= 12,
// and the presence of a lowercase, uppercase, digit and special character.
func PasswordStrength(password string) Strength {
	if password == "" {
		return strengthLevels[0]
	}
	score := 0
	if n := len([]rune(password)); n >= 8 {
		score++
		if n >= 12 {
			score++
		}
	}
	c := classify(password)
	for _, ok := range []bool{c.lower, c.upper, c.digit, c.special} {
		if ok {
			score++
		}
	}
	return strengthLevels[min(score, len(strengthLevels)-1)]
}
