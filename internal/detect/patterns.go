package detect

import (
	"regexp"
	"strings"
)

// re compiles a pattern into a matcher predicate.
func re(pattern string) func(string) bool {
	return regexp.MustCompile(pattern).MatchString
}

var (
	yamlLoadRe = regexp.MustCompile(`(?i)\byaml\.load\s*\(`)
	yamlSafeRe = regexp.MustCompile(`(?i)SafeLoader`)

	decodeRe    = regexp.MustCompile(`base64\s+(-d\b|-D\b|--decode\b)|\brev\s*\|`)
	shellPipeRe = regexp.MustCompile(`\|\s*(ba|da|z)?sh\b`)
	shellDashC  = regexp.MustCompile(`\b(ba|da|z)?sh\s+-c\b`)
)

// matchYAMLUnsafeDefault fires on yaml.load calls that do not name a safe
// loader on the same line. yaml.safe_load never matches; an explicit
// unsafe/full loader is covered by its own detector.
func matchYAMLUnsafeDefault(payload string) bool {
	for _, line := range strings.Split(payload, "\n") {
		if yamlLoadRe.MatchString(line) && !yamlSafeRe.MatchString(line) {
			return true
		}
	}
	return false
}

// matchEncodedPayloadExec fires when a decode step (base64 -d / rev) is
// combined with a pipe into a shell or an explicit `sh -c` invocation.
func matchEncodedPayloadExec(payload string) bool {
	if !decodeRe.MatchString(payload) {
		return false
	}
	return shellPipeRe.MatchString(payload) || shellDashC.MatchString(payload)
}

// Detectors is the full rule table. Declaration order is report order.
var Detectors = []Detector{
	{
		ID:       HardcodedSecret,
		Category: CategorySecrets,
		Match:    re(`(?i)\b(password|passwd|pwd|secret|api[_-]?key|apikey|access[_-]?token|auth[_-]?token|private[_-]?key)\b\s*[:=]+\s*["'][^"']{8,}["']`),
		Message:  "hardcoded credential assigned to a string literal; read secrets from the environment or a secrets manager",
	},
	{
		ID:       AWSAccessKey,
		Category: CategorySecrets,
		Match:    re(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`),
		Message:  "AWS access key ID embedded in content; rotate the key and use IAM roles or environment credentials",
	},
	{
		ID:       PrivateKeyMaterial,
		Category: CategorySecrets,
		Match:    re(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),
		Message:  "private key material embedded in content; keys belong outside the repository",
	},
	{
		ID:       JWTToken,
		Category: CategorySecrets,
		Match:    re(`\beyJ[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]{4,}`),
		Message:  "signed token embedded in content; tokens belong in secret storage, not source",
	},
	{
		ID:       SQLInjectionFString,
		Category: CategoryInjection,
		Match:    re(`(?i)\b(execute|executemany|query|raw)\s*\(\s*(f["']|("[^"]*"|'[^']*')\s*(\+|%|\.format\s*\())`),
		Message:  "query built by string interpolation or concatenation; use parameterized queries",
	},
	{
		ID:       SQLInjectionTemplate,
		Category: CategoryInjection,
		Match:    re("(?i)\\b(execute|executemany|query|raw)\\s*\\(\\s*`[^`]*\\$\\{"),
		Message:  "query built from an interpolated template literal; use parameterized queries",
	},
	{
		ID:       EvalInjection,
		Category: CategoryDynamicCode,
		Match:    re(`(?i)\beval\s*\(.*\b(req|request|input|params|body|args|user_input|user)\b`),
		Message:  "dynamic evaluation of request/user-derived input; parse or dispatch explicitly instead",
	},
	{
		ID:       DOMXSSSink,
		Category: CategoryMarkupSink,
		Match:    re(`\.(innerHTML|outerHTML)\s*\+?=\s*[^="'` + "`" + `\s]`),
		Message:  "non-literal assigned to a raw HTML sink; use textContent or sanitize the value first",
	},
	{
		ID:       PickleDeserialization,
		Category: CategoryDeserialization,
		Match:    re(`\b(pickle|cPickle|_pickle)\.loads?\s*\(`),
		Message:  "pickle deserializes arbitrary objects; use JSON or another data-only format",
	},
	{
		ID:       YAMLUnsafeDefault,
		Category: CategoryDeserialization,
		Match:    matchYAMLUnsafeDefault,
		Message:  "yaml.load without an explicit safe loader; use yaml.safe_load or SafeLoader",
	},
	{
		ID:       YAMLUnsafeLoader,
		Category: CategoryDeserialization,
		Match:    re(`(?i)(\byaml\.(unsafe_load|full_load)\s*\(|Loader\s*=\s*yaml\.(UnsafeLoader|FullLoader))`),
		Message:  "unsafe/full YAML loader constructs arbitrary objects; use the safe loader",
	},
	{
		ID:       PHPUnserialize,
		Category: CategoryDeserialization,
		Match:    re(`\bunserialize\s*\(`),
		Message:  "unserialize() on untrusted data enables object injection; use json_decode",
	},
	{
		ID:        EncodedPayloadExec,
		Category:  CategoryShellObfuscation,
		ShellOnly: true,
		Match:     matchEncodedPayloadExec,
		Message:   "decoded payload piped into a shell; run the command in clear text",
	},
	{
		ID:        ShellEval,
		Category:  CategoryShellObfuscation,
		ShellOnly: true,
		Match:     re(`\beval\s+["'$]`),
		Message:   "shell eval over a quoted or expanded argument; invoke the command directly",
	},
}
