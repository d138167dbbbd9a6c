package hook

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Well-known names of the builtin toggle-controlled guardrails. Override
// directives targeting these names modify the synthesized builtin hooks
// exactly like any custom hook.
const (
	BuiltinContentSafety = "content_safety"
	BuiltinPIIFilter     = "pii_filter"
	BuiltinQualityCheck  = "quality_check"
)

// Content safety levels, from most to least restrictive.
const (
	SafetyStrict     = "strict"
	SafetyModerate   = "moderate"
	SafetyPermissive = "permissive"
)

const (
	defaultMinOutputLength    = 10
	defaultMaxWhitespaceRatio = 0.5
)

var (
	strictBlockedPatterns = compilePatterns(
		`\b(violence|violent|kill|murder|attack|weapon)\b`,
		`\b(illegal|crime|criminal|drug|drugs)\b`,
		`\b(hate|racist|discrimination)\b`,
		`\b(exploit|abuse|harm)\b`,
	)

	moderateBlockedPatterns = compilePatterns(
		`\b(kill|murder|attack|weapon)\b`,
		`\b(illegal|crime)\b`,
		`\b(hate|racist)\b`,
	)

	permissiveBlockedPatterns = compilePatterns(
		`\b(murder|weapon)\b`,
		`\b(hate|racist)\b`,
	)

	piiPatterns = map[string]*regexp.Regexp{
		"email":       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		"phone":       regexp.MustCompile(`\b(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		"ssn":         regexp.MustCompile(`\b\d{3}[-.\s]?\d{2}[-.\s]?\d{4}\b`),
		"credit_card": regexp.MustCompile(`\b(?:\d{4}[-.\s]?){3}\d{4}\b`),
		"ip_address":  regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		"passport":    regexp.MustCompile(`\b[A-Z]{1,2}\d{6,9}\b`),
	}
)

func compilePatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func defaultPIITypes() []string {
	return []string{"email", "phone", "ssn", "credit_card"}
}

// contentSafetyHook builds the builtin content safety check for the given
// level. The returned hook fails when the content matches a blocked pattern.
func contentSafetyHook(level string) Func {
	var patterns []*regexp.Regexp
	switch level {
	case SafetyStrict:
		patterns = strictBlockedPatterns
	case SafetyPermissive:
		patterns = permissiveBlockedPatterns
	default:
		patterns = moderateBlockedPatterns
	}

	return func(_ context.Context, v any) (any, error) {
		content := strings.ToLower(contentOf(v))

		for _, p := range patterns {
			if match := p.FindString(content); match != "" {
				return v, fmt.Errorf("content safety check failed: blocked pattern %q", match)
			}
		}

		return v, nil
	}
}

// piiFilterHook builds the builtin PII detection check scanning for the given
// pattern types. Unknown types are skipped. Detected PII is recorded in the
// output metadata when the value is an *Output.
func piiFilterHook(types []string) Func {
	if types == nil {
		types = defaultPIITypes()
	}

	return func(_ context.Context, v any) (any, error) {
		content := contentOf(v)

		var found []string
		for _, t := range types {
			pattern, ok := piiPatterns[t]
			if !ok {
				continue
			}
			if matches := pattern.FindAllString(content, -1); len(matches) > 0 {
				found = append(found, fmt.Sprintf("%s(%d)", t, len(matches)))
			}
		}

		if len(found) == 0 {
			return v, nil
		}

		if out, ok := v.(*Output); ok {
			if out.Metadata == nil {
				out.Metadata = make(map[string]any)
			}
			out.Metadata["pii_detected"] = found
		}

		return v, fmt.Errorf("PII detected in output: %s", strings.Join(found, ", "))
	}
}

// qualityCheckHook builds the builtin output quality check: minimum length,
// maximum whitespace ratio and an optional hard length cap.
func qualityCheckHook(minLength int, maxWhitespaceRatio float64, maxLength *int) Func {
	if minLength <= 0 {
		minLength = defaultMinOutputLength
	}
	if maxWhitespaceRatio <= 0 {
		maxWhitespaceRatio = defaultMaxWhitespaceRatio
	}

	return func(_ context.Context, v any) (any, error) {
		content := contentOf(v)

		if len(content) < minLength {
			return v, fmt.Errorf("output too short: %d < %d", len(content), minLength)
		}

		if maxLength != nil && len(content) > *maxLength {
			return v, fmt.Errorf("output too long: %d > %d", len(content), *maxLength)
		}

		whitespace := 0
		for _, r := range content {
			if unicode.IsSpace(r) {
				whitespace++
			}
		}
		if ratio := float64(whitespace) / float64(len(content)); ratio > maxWhitespaceRatio {
			return v, fmt.Errorf("output has too much whitespace: %.2f > %.2f", ratio, maxWhitespaceRatio)
		}

		return v, nil
	}
}
