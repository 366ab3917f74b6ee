package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_OverridesSections(t *testing.T) {
	doc := []byte(`
company:
  company_name: Test Heating
  phone: "+1 905-555-0100"
  headline_rebate: 7500
  service_areas: [Hamilton]
  services:
    - id: heat-pumps
      title: Heat Pumps
      max_rebate: 7500
faqs:
  - question: Do you service boilers?
    keywords: [boiler]
    answer: Yes, we service most residential boilers.
`)

	base, err := Parse(doc)
	require.NoError(t, err)

	facts := base.Facts()
	assert.Equal(t, "Test Heating", facts.CompanyName)
	assert.Equal(t, []string{"Hamilton"}, facts.ServiceAreas)
	require.Len(t, base.Entries(), 1)

	match := NewResolver(base).Resolve("my BOILER is loud")
	assert.True(t, match.Matched)
	assert.Equal(t, "Yes, we service most residential boilers.", match.Text)

	// Sections that were omitted keep the built-in tables.
	assert.Len(t, base.Timeline(), len(defaultTimeline))
	assert.Len(t, base.Reviews(), len(defaultReviews))
}

func TestParse_RejectsInvalidDocument(t *testing.T) {
	doc := []byte(`
company:
  phone: ""
  headline_rebate: 0
  services:
    - id: a
    - id: a
faqs:
  - question: ""
    answer: ""
`)

	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company phone is required")
	assert.Contains(t, err.Error(), "duplicate id")
	assert.Contains(t, err.Error(), "faq 0: answer is required")
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("faqs: [unterminated"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	base, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, defaultFacts.Phone, base.Facts().Phone)

	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reviews:\n  - author: A.\n    rating: 5\n    text: Great\n"), 0o600))

	base, err = LoadFile(path)
	require.NoError(t, err)
	require.Len(t, base.Reviews(), 1)
	assert.Equal(t, "A.", base.Reviews()[0].Author)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
