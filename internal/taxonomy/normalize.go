package taxonomy

import "strings"

// NormalizeLabel reduces a label to its comparison form: lower-case, periods
// stripped, surrounding whitespace trimmed and internal whitespace runs
// collapsed to a single space. Two labels match iff their normalized forms
// are exactly equal; there is no alias or fuzzy matching.
func NormalizeLabel(label string) string {
	s := strings.ToLower(label)
	s = strings.ReplaceAll(s, ".", "")
	return strings.Join(strings.Fields(s), " ")
}
