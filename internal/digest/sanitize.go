package digest

import "regexp"

var (
	unsafeChars = regexp.MustCompile(`[^0-9a-zA-Z /():;.&+-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Sanitize strips every character outside the permitted set (ASCII
// letters, digits, space and the punctuation /():;.&+-) and collapses
// whitespace runs to a single space, so embedded markup or newlines
// cannot break a digest line. Applied at render time only; titles in
// the aggregation stay untouched.
func Sanitize(title string) string {
	return whitespace.ReplaceAllString(unsafeChars.ReplaceAllString(title, ""), " ")
}
