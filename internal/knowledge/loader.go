package knowledge

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileDocument is the on-disk shape of a knowledge override file. Omitted
// sections keep the built-in tables.
type fileDocument struct {
	Company  *CompanyFacts  `yaml:"company"`
	FAQs     []Entry        `yaml:"faqs"`
	Timeline []TimelineStep `yaml:"timeline"`
	Reviews  []Review       `yaml:"reviews"`
}

// LoadFile reads a YAML knowledge file. An empty path returns Default().
func LoadFile(path string) (*Base, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML knowledge document and validates it.
func Parse(data []byte) (*Base, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("knowledge: decode yaml: %w", err)
	}

	facts := defaultFacts
	if doc.Company != nil {
		facts = *doc.Company
	}
	entries := defaultEntries
	if len(doc.FAQs) > 0 {
		entries = doc.FAQs
	}
	timeline := defaultTimeline
	if len(doc.Timeline) > 0 {
		timeline = doc.Timeline
	}
	reviews := defaultReviews
	if len(doc.Reviews) > 0 {
		reviews = doc.Reviews
	}

	if err := validate(facts, entries); err != nil {
		return nil, err
	}
	return NewBase(facts, entries, timeline, reviews), nil
}

func validate(facts CompanyFacts, entries []Entry) error {
	var errs []error
	if strings.TrimSpace(facts.Phone) == "" {
		errs = append(errs, errors.New("company phone is required"))
	}
	if facts.HeadlineRebate <= 0 {
		errs = append(errs, errors.New("company headline_rebate must be positive"))
	}
	seen := make(map[string]struct{}, len(facts.Services))
	for i, svc := range facts.Services {
		if strings.TrimSpace(svc.ID) == "" {
			errs = append(errs, fmt.Errorf("service %d: id is required", i))
			continue
		}
		if _, dup := seen[svc.ID]; dup {
			errs = append(errs, fmt.Errorf("service %d: duplicate id %q", i, svc.ID))
		}
		seen[svc.ID] = struct{}{}
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Answer) == "" {
			errs = append(errs, fmt.Errorf("faq %d: answer is required", i))
		}
		if strings.TrimSpace(e.Question) == "" && len(e.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("faq %d: question or keywords required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("knowledge: invalid document: %w", errors.Join(errs...))
	}
	return nil
}
