package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultSchemaPath = "sections.yaml"

// SectionSchema constrains the free-form section cards a narrator may
// create. A nil or empty schema allows any section.
type SectionSchema struct {
	Version  int           `yaml:"version"`
	Sections []SectionType `yaml:"sections"`

	index map[string]*SectionType
}

type SectionType struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Statuses    []string `yaml:"statuses"`
}

func LoadSectionSchema(path string) (*SectionSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading section schema: %w", err)
	}

	var schema SectionSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("loading section schema: %w", err)
	}

	if err := validateSectionSchema(&schema); err != nil {
		return nil, fmt.Errorf("loading section schema: %w", err)
	}

	schema.buildIndex()
	return &schema, nil
}

// LoadSectionSchemaIfExists returns nil without error when path is absent.
func LoadSectionSchemaIfExists(path string) (*SectionSchema, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return LoadSectionSchema(path)
}

// NewSectionSchema builds an indexed schema from section types.
func NewSectionSchema(sections ...SectionType) (*SectionSchema, error) {
	schema := &SectionSchema{Version: 1, Sections: sections}
	if err := validateSectionSchema(schema); err != nil {
		return nil, err
	}
	schema.buildIndex()
	return schema, nil
}

func (s *SectionSchema) buildIndex() {
	s.index = make(map[string]*SectionType)
	for i := range s.Sections {
		section := &s.Sections[i]
		s.index[strings.ToLower(section.Name)] = section
	}
}

func validateSectionSchema(s *SectionSchema) error {
	if s.Version != 1 {
		return fmt.Errorf("unsupported version: %d", s.Version)
	}

	names := make(map[string]struct{})
	for i, section := range s.Sections {
		if strings.TrimSpace(section.Name) == "" {
			return fmt.Errorf("section %d name is required", i)
		}
		key := strings.ToLower(section.Name)
		if _, exists := names[key]; exists {
			return fmt.Errorf("duplicate section name: %s", section.Name)
		}
		names[key] = struct{}{}

		statuses := make(map[string]struct{})
		for _, status := range section.Statuses {
			value := strings.ToLower(strings.TrimSpace(status))
			if value == "" {
				return fmt.Errorf("section %s has empty status", section.Name)
			}
			if _, exists := statuses[value]; exists {
				return fmt.Errorf("section %s has duplicate status: %s", section.Name, status)
			}
			statuses[value] = struct{}{}
		}
	}

	return nil
}

func (s *SectionSchema) SectionByName(name string) (*SectionType, bool) {
	if s == nil {
		return nil, false
	}
	section, ok := s.index[strings.ToLower(name)]
	return section, ok
}

// Restricts reports whether the schema limits which sections may exist.
func (s *SectionSchema) Restricts() bool {
	return s != nil && len(s.Sections) > 0
}

func (s *SectionSchema) IsValidSection(name string) bool {
	if !s.Restricts() {
		return true
	}
	_, ok := s.SectionByName(name)
	return ok
}

// AllowsStatus reports whether a card in section may carry status. Sections
// without declared statuses accept any value.
func (s *SectionSchema) AllowsStatus(section, status string) bool {
	st, ok := s.SectionByName(section)
	if !ok || len(st.Statuses) == 0 {
		return true
	}
	for _, allowed := range st.Statuses {
		if strings.EqualFold(allowed, strings.TrimSpace(status)) {
			return true
		}
	}
	return false
}
