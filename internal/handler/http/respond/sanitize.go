package respond

import "regexp"

var (
	// The Anthropic pattern must run before the OpenAI one; both start
	// with "sk-".
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	githubTokenPattern = regexp.MustCompile(`(ghp|gho|ghs)_[a-zA-Z0-9]{20,}`)
	bearerPattern      = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/-]{8,}=*`)

	// Passwords embedded in connection strings.
	dsnPasswordPattern = regexp.MustCompile(`://([^:/]+):([^@]+)@`)
)

// Sanitize masks credential-looking fragments in a message so API keys and
// DSN passwords never reach a response body or a log line.
func Sanitize(msg string) string {
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = githubTokenPattern.ReplaceAllString(msg, "${1}_****")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
