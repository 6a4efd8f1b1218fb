package domain

import (
	"crypto/x509"
	"encoding/asn1"
	"time"
)

// Logger defines the logging interface.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Log(msg string)
}

// UserInteraction defines the interface for user prompts.
type UserInteraction interface {
	Confirm(prompt string) (bool, error)
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// ProfileSource supplies the profile snapshot, in registration order.
type ProfileSource interface {
	LoadProfiles() ([]*Profile, error)
	ValidateProfiles(data []byte) error
}

// SettingsLoader loads application settings.
type SettingsLoader interface {
	LoadSettings() (*Settings, error)
}

// Settings holds application-wide configuration.
type Settings struct {
	DefaultProfile string `mapstructure:"default_profile"`
	LogLevel       string `mapstructure:"log_level"`
	LogFile        string `mapstructure:"log_file"`
}

// FormStore persists request forms, one per session ID.
type FormStore interface {
	FormExists(id string) (bool, error)
	LoadForm(id string) (FormState, error)
	// SaveForm replaces the stored form atomically and returns the saved revision.
	SaveForm(id string, state FormState) (int, error)
	ListFormIDs() ([]string, error)
	DeleteForm(id string) error
}

// TemplateBuilder turns a finished form into an unsigned certificate template.
type TemplateBuilder interface {
	BuildTemplate(state FormState) (*x509.Certificate, error)

	// SupportedExtensions lists the extensions a template can carry.
	SupportedExtensions() []ExtensionName
}

// Extension is a certificate extension built from a form field and
// applied to an x509.Certificate template.
type Extension interface {
	// ParseFromField reads the extension configuration from a form field.
	ParseFromField(field ExtensionField) error

	// ApplyToCertificate applies the extension to an x509.Certificate template.
	ApplyToCertificate(cert *x509.Certificate) error

	// Name returns the extension name as used in profiles and forms.
	Name() ExtensionName

	// OID returns the extension's ASN.1 object identifier.
	OID() asn1.ObjectIdentifier
}

// ExtensionFactory creates and manages certificate extensions.
type ExtensionFactory interface {
	// CreateExtension creates an extension by name, returns nil if unknown
	CreateExtension(name ExtensionName) Extension

	// RegisterExtension registers a new extension type
	RegisterExtension(name ExtensionName, creator func() Extension)

	// ListExtensions returns all registered extension names
	ListExtensions() []ExtensionName

	// IsRegistered checks if an extension name is registered
	IsRegistered(name ExtensionName) bool
}
