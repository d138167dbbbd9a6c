package hook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentSafety_Levels(t *testing.T) {
	strict := contentSafetyHook(SafetyStrict)
	moderate := contentSafetyHook(SafetyModerate)
	permissive := contentSafetyHook(SafetyPermissive)

	// "crime" is blocked at strict and moderate, allowed at permissive.
	_, err := strict(context.Background(), "the crime rate dropped")
	assert.Error(t, err)

	_, err = moderate(context.Background(), "the crime rate dropped")
	assert.Error(t, err)

	_, err = permissive(context.Background(), "the crime rate dropped")
	assert.NoError(t, err)

	// "drugs" is blocked at strict only.
	_, err = strict(context.Background(), "a policy paper on drugs")
	assert.Error(t, err)

	_, err = moderate(context.Background(), "a policy paper on drugs")
	assert.NoError(t, err)
}

func TestContentSafety_MatchesCaseInsensitive(t *testing.T) {
	fn := contentSafetyHook(SafetyModerate)

	_, err := fn(context.Background(), "WEAPON shipment")
	assert.Error(t, err)
}

func TestPIIFilter_DetectsAndAnnotates(t *testing.T) {
	fn := piiFilterHook([]string{"email", "ssn"})

	out := NewOutput("reach me at jane@example.com or 123-45-6789")

	_, err := fn(context.Background(), out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email(1)")
	assert.Contains(t, err.Error(), "ssn(1)")

	detected, ok := out.Metadata["pii_detected"].([]string)
	assert.True(t, ok)
	assert.Len(t, detected, 2)
}

func TestPIIFilter_AnnotatesOutputWithNilMetadata(t *testing.T) {
	fn := piiFilterHook([]string{"email"})

	// Outputs built by hand, without NewOutput, carry a nil metadata map.
	out := &Output{Content: "contact me at someone@example.com"}

	_, err := fn(context.Background(), out)
	assert.Error(t, err)

	detected, ok := out.Metadata["pii_detected"].([]string)
	assert.True(t, ok)
	assert.Len(t, detected, 1)
}

func TestPIIFilter_ScansOnlySelectedTypes(t *testing.T) {
	fn := piiFilterHook([]string{"phone"})

	_, err := fn(context.Background(), "mail jane@example.com")
	assert.NoError(t, err)
}

func TestPIIFilter_UnknownTypeSkipped(t *testing.T) {
	fn := piiFilterHook([]string{"dna_sequence"})

	_, err := fn(context.Background(), "jane@example.com")
	assert.NoError(t, err)
}

func TestPIIFilter_CleanContentPasses(t *testing.T) {
	fn := piiFilterHook(nil)

	out := NewOutput("nothing sensitive here")

	_, err := fn(context.Background(), out)
	assert.NoError(t, err)
	assert.NotContains(t, out.Metadata, "pii_detected")
}

func TestQualityCheck_MinLength(t *testing.T) {
	fn := qualityCheckHook(10, 0, nil)

	_, err := fn(context.Background(), "too short")
	assert.Error(t, err)

	_, err = fn(context.Background(), "long enough output text")
	assert.NoError(t, err)
}

func TestQualityCheck_WhitespaceRatio(t *testing.T) {
	fn := qualityCheckHook(5, 0.5, nil)

	_, err := fn(context.Background(), "a b c d e f g   ")
	assert.Error(t, err)
}

func TestQualityCheck_MaxLength(t *testing.T) {
	maxLen := 15
	fn := qualityCheckHook(5, 0, &maxLen)

	_, err := fn(context.Background(), "within limit")
	assert.NoError(t, err)

	_, err = fn(context.Background(), "well beyond the configured limit")
	assert.Error(t, err)
}

func TestOutput_ContentExtraction(t *testing.T) {
	out := NewOutput("hello")
	assert.NotEmpty(t, out.RunID)

	assert.Equal(t, "hello", contentOf(out))
	assert.Equal(t, "plain", contentOf("plain"))
	assert.Equal(t, "42", contentOf(42))
}
