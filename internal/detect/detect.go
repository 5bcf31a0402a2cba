// Package detect holds the dangerous-pattern detector table and evaluates
// it against tool-call payloads.
//
// Detectors are data, not code branches: each is one row pairing a stable
// classification identifier with a matcher predicate and remediation
// guidance. Adding a detector is adding a row. Every applicable detector is
// tested independently per invocation — there is no short-circuit, and a
// detector fires at most once no matter how many times its pattern occurs.
package detect

// Classification identifies one class of dangerous pattern. These values
// are stable external identifiers: projects reference them in
// .guardrail.yaml suppress lists, so renaming one is a breaking change.
type Classification string

const (
	HardcodedSecret       Classification = "hardcoded-secret"
	AWSAccessKey          Classification = "aws-access-key"
	PrivateKeyMaterial    Classification = "private-key-material"
	JWTToken              Classification = "jwt-token"
	SQLInjectionFString   Classification = "sql-injection-fstring"
	SQLInjectionTemplate  Classification = "sql-injection-template"
	EvalInjection         Classification = "eval-injection"
	DOMXSSSink            Classification = "dom-xss-sink"
	PickleDeserialization Classification = "pickle-deserialization"
	YAMLUnsafeDefault     Classification = "yaml-unsafe-default"
	YAMLUnsafeLoader      Classification = "yaml-unsafe-loader"
	PHPUnserialize        Classification = "php-unserialize"
	EncodedPayloadExec    Classification = "encoded-payload-exec"
	ShellEval             Classification = "shell-eval"
)

// Category groups classifications into broader weakness areas.
type Category string

const (
	CategorySecrets          Category = "secrets"
	CategoryInjection        Category = "injection"
	CategoryDynamicCode      Category = "dynamic-code"
	CategoryMarkupSink       Category = "markup-sink"
	CategoryDeserialization  Category = "deserialization"
	CategoryShellObfuscation Category = "shell-obfuscation"
)

// Detector is a single immutable rule. Every classification the gate knows
// about is security-critical; a criticality tier would be a new field here.
type Detector struct {
	ID        Classification
	Category  Category
	ShellOnly bool
	Match     func(payload string) bool
	Message   string
}

// Finding records one matched detector for one invocation.
type Finding struct {
	Classification Classification `json:"classification" yaml:"classification"`
	Message        string         `json:"message" yaml:"message"`
}

// Evaluate tests every applicable detector against the payload and returns
// the findings in detector-declaration order. Shell-only detectors run only
// when shell is true; all others run for every tool kind.
func Evaluate(payload string, shell bool) []Finding {
	var findings []Finding
	for _, d := range Detectors {
		if d.ShellOnly && !shell {
			continue
		}
		if d.Match(payload) {
			findings = append(findings, Finding{Classification: d.ID, Message: d.Message})
		}
	}
	return findings
}

// classificationSet indexes the fixed vocabulary for membership checks.
var classificationSet = func() map[Classification]bool {
	set := make(map[Classification]bool, len(Detectors))
	for _, d := range Detectors {
		set[d.ID] = true
	}
	return set
}()

// IsClassification reports whether id belongs to the fixed classification
// vocabulary. Suppression entries that fail this check are ignored: they
// are advisory rule ids meaningful only to the documentation skills.
func IsClassification(id string) bool {
	return classificationSet[Classification(id)]
}
