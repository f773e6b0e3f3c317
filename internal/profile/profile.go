// Package profile handles processing-profile records: named sets of PDF
// processing actions with their parameters, stored as YAML, TOML, or JSON
// files.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/blumekt/pdfdeck/internal/types"
)

// Profile defines a set of actions to apply to PDF documents.
type Profile struct {
	Name    string                   `yaml:"name" toml:"name" json:"name"`
	Actions []types.ProcessingAction `yaml:"actions" toml:"actions" json:"actions"`

	// Watermark parameters, used when actions include add_watermark.
	WatermarkText     string  `yaml:"watermark_text,omitempty" toml:"watermark_text,omitempty" json:"watermark_text,omitempty"`
	WatermarkOpacity  float64 `yaml:"watermark_opacity,omitempty" toml:"watermark_opacity,omitempty" json:"watermark_opacity,omitempty"`
	WatermarkRotation int     `yaml:"watermark_rotation,omitempty" toml:"watermark_rotation,omitempty" json:"watermark_rotation,omitempty"`

	// Bates numbering parameters, used when actions include add_bates.
	BatesPrefix string `yaml:"bates_prefix,omitempty" toml:"bates_prefix,omitempty" json:"bates_prefix,omitempty"`
	BatesSuffix string `yaml:"bates_suffix,omitempty" toml:"bates_suffix,omitempty" json:"bates_suffix,omitempty"`
	BatesStart  int    `yaml:"bates_start,omitempty" toml:"bates_start,omitempty" json:"bates_start,omitempty"`
	BatesDigits int    `yaml:"bates_digits,omitempty" toml:"bates_digits,omitempty" json:"bates_digits,omitempty"`

	// PDFALevel selects the conformance level for convert_pdfa.
	PDFALevel string `yaml:"pdfa_level,omitempty" toml:"pdfa_level,omitempty" json:"pdfa_level,omitempty"`

	// OutputSuffix is appended to processed file names.
	OutputSuffix string `yaml:"output_suffix,omitempty" toml:"output_suffix,omitempty" json:"output_suffix,omitempty"`
}

// Defaults applied to absent optional fields.
const (
	DefaultWatermarkOpacity  = 0.3
	DefaultWatermarkRotation = 45
	DefaultBatesStart        = 1
	DefaultBatesDigits       = 6
	DefaultPDFALevel         = "1b"
	DefaultOutputSuffix      = "_processed"
)

// New creates a profile with defaults applied.
func New(name string, actions ...types.ProcessingAction) *Profile {
	p := &Profile{Name: name, Actions: actions}
	p.applyDefaults()
	return p
}

func (p *Profile) applyDefaults() {
	if p.WatermarkOpacity == 0 {
		p.WatermarkOpacity = DefaultWatermarkOpacity
	}
	if p.WatermarkRotation == 0 {
		p.WatermarkRotation = DefaultWatermarkRotation
	}
	if p.BatesStart == 0 {
		p.BatesStart = DefaultBatesStart
	}
	if p.BatesDigits == 0 {
		p.BatesDigits = DefaultBatesDigits
	}
	if p.PDFALevel == "" {
		p.PDFALevel = DefaultPDFALevel
	}
	if p.OutputSuffix == "" {
		p.OutputSuffix = DefaultOutputSuffix
	}
}

// HasAction reports whether the profile includes the given action.
func (p *Profile) HasAction(action types.ProcessingAction) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// ValidationError represents a profile validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the profile for required fields and valid values,
// aggregating all problems into one error.
func (p *Profile) Validate() error {
	var errors []string

	if strings.TrimSpace(p.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "profile name is required"}.Error())
	}
	if len(p.Actions) == 0 {
		errors = append(errors, ValidationError{Field: "actions", Message: "at least one action is required"}.Error())
	}
	for i, action := range p.Actions {
		if err := action.Validate(); err != nil {
			errors = append(errors, ValidationError{Field: fmt.Sprintf("actions[%d]", i), Message: err.Error()}.Error())
		}
	}

	if p.HasAction(types.ActionAddWatermark) {
		if strings.TrimSpace(p.WatermarkText) == "" {
			errors = append(errors, ValidationError{Field: "watermark_text", Message: "required when add_watermark is enabled"}.Error())
		}
		if p.WatermarkOpacity < 0 || p.WatermarkOpacity > 1 {
			errors = append(errors, ValidationError{Field: "watermark_opacity", Message: "must be between 0 and 1"}.Error())
		}
	}

	if p.HasAction(types.ActionAddBates) {
		if p.BatesStart < 1 {
			errors = append(errors, ValidationError{Field: "bates_start", Message: "must be at least 1"}.Error())
		}
		if p.BatesDigits < 1 || p.BatesDigits > 12 {
			errors = append(errors, ValidationError{Field: "bates_digits", Message: "must be between 1 and 12"}.Error())
		}
	}

	if p.HasAction(types.ActionConvertPDFA) {
		switch p.PDFALevel {
		case "1b", "2b", "3b":
		default:
			errors = append(errors, ValidationError{Field: "pdfa_level", Message: "must be 1b, 2b, or 3b"}.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("profile validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

// Load reads and validates a profile file in YAML, TOML, or JSON format.
func Load(path string) (*Profile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	profile := &Profile{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, profile)
	case ".toml":
		err = toml.Unmarshal(content, profile)
	case ".json":
		err = json.Unmarshal(content, profile)
	default:
		return nil, fmt.Errorf("unsupported profile format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", filepath.Base(path), err)
	}

	profile.applyDefaults()

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// LoadDir loads every profile file in dir, sorted by profile name. Files
// with unsupported extensions are skipped; invalid profiles fail the load.
func LoadDir(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	var profiles []*Profile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".toml", ".json":
		default:
			continue
		}

		profile, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		profiles = append(profiles, profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})

	return profiles, nil
}

// Save writes the profile as YAML.
func (p *Profile) Save(path string) error {
	content, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
