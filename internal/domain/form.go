package domain

import (
	"maps"
	"slices"
	"time"
)

// FieldID names a form field that may take part in cascade recomputation.
type FieldID string

// FieldSubjectAltName is the derived SAN field fed by CN and the CN-in-SAN toggle.
const FieldSubjectAltName FieldID = "subject_alt_name"

// ExtensionFieldID returns the cascade field identifier of an extension.
func ExtensionFieldID(name ExtensionName) FieldID {
	return FieldID(name)
}

// ExtensionField is the editable state of one extension in a certificate request form.
// Sub-fields that do not apply to the extension's kind stay empty.
type ExtensionField struct {
	Include      bool     `yaml:"include"`
	Critical     bool     `yaml:"critical"`
	Values       []string `yaml:"values,omitempty"`        // multi-choice tokens, distribution point reasons
	Issuers      string   `yaml:"issuers,omitempty"`       // newline separated
	OCSP         string   `yaml:"ocsp,omitempty"`          // newline separated
	FullName     string   `yaml:"full_name,omitempty"`     // newline separated
	RelativeName string   `yaml:"relative_name,omitempty"` // e.g. CN=crl1+O=Example
	CRLIssuer    string   `yaml:"crl_issuer,omitempty"`    // newline separated general names
	Names        string   `yaml:"names,omitempty"`         // newline separated general names

	// Derived by cascade recomputation.
	ValueEnabled    bool `yaml:"value_enabled"`
	CriticalEnabled bool `yaml:"critical_enabled"`
}

// HasValue reports whether the field carries anything that would end up in
// the extension, given the kind of the extension.
func (f ExtensionField) HasValue(kind ExtensionKind) bool {
	switch kind {
	case KindToggle:
		return true
	case KindMultiChoice:
		return len(f.Values) > 0
	case KindCompoundAIA:
		return f.Issuers != "" || f.OCSP != ""
	case KindCompoundDistributionPoint:
		return f.FullName != "" || f.RelativeName != "" || f.CRLIssuer != ""
	case KindGeneralNames:
		return f.Names != ""
	}
	return false
}

// FormState is the in-progress certificate request a user edits.
// Each session owns its own FormState; it is never shared.
type FormState struct {
	Profile            string                           `yaml:"profile"`
	Subject            map[SubjectKey]string            `yaml:"subject"`
	CNInSAN            bool                             `yaml:"cn_in_san"`
	SubjectAltNames    []string                         `yaml:"subject_alt_names,omitempty"`
	EffectiveSANs      []string                         `yaml:"effective_sans,omitempty"`
	Extensions         map[ExtensionName]ExtensionField `yaml:"extensions"`
	Description        string                           `yaml:"description,omitempty"`
	DescriptionVisible bool                             `yaml:"description_visible"`
	Revision           int                              `yaml:"revision"`
	UpdatedAt          time.Time                        `yaml:"updated_at,omitempty"`
}

// NewFormState returns an empty form with CN-in-SAN enabled, as a fresh
// request form starts out.
func NewFormState() FormState {
	return FormState{
		Subject:    make(map[SubjectKey]string),
		CNInSAN:    true,
		Extensions: make(map[ExtensionName]ExtensionField),
	}
}

// Clone returns a deep copy of s.
func (s FormState) Clone() FormState {
	out := s
	out.Subject = maps.Clone(s.Subject)
	if out.Subject == nil {
		out.Subject = make(map[SubjectKey]string)
	}
	out.SubjectAltNames = slices.Clone(s.SubjectAltNames)
	out.EffectiveSANs = slices.Clone(s.EffectiveSANs)
	out.Extensions = make(map[ExtensionName]ExtensionField, len(s.Extensions))
	for name, field := range s.Extensions {
		field.Values = slices.Clone(field.Values)
		out.Extensions[name] = field
	}
	return out
}
