package sanitize

import "regexp"

var (
	scriptBlockPattern  = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	htmlTagPattern      = regexp.MustCompile(`<.*?>`)
	sqlKeywordPattern   = regexp.MustCompile(`(?i)\b(ALTER|CREATE|DELETE|DROP|EXEC(UTE)?|INSERT|SELECT|UPDATE)\b`)
	sqlTautologyPattern = regexp.MustCompile(`(?i)\b(OR|AND)\b\s+\w+\s*=\s*\w+\s*`)
)

// Strip removes script blocks, HTML tags and common SQL injection patterns
// from free-form user input. The stripped text is what gets persisted and
// echoed back to clients.
func Strip(input string) string {
	if input == "" {
		return input
	}

	input = scriptBlockPattern.ReplaceAllString(input, "")
	input = htmlTagPattern.ReplaceAllString(input, "")
	input = sqlKeywordPattern.ReplaceAllString(input, "")
	input = sqlTautologyPattern.ReplaceAllString(input, "")

	return input
}
