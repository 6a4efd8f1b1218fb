package domain

// ExtensionValue is the kind-dependent payload of an ExtensionSpec.
// The set of implementations is closed; see Toggle, MultiChoice,
// AuthorityInformationAccess, DistributionPoint, GeneralNames and Unrecognized.
type ExtensionValue interface {
	Kind() ExtensionKind
	isExtensionValue()
}

// Toggle is a presence-only extension such as OCSP no-check.
type Toggle struct{}

// MultiChoice is an ordered set of enumerated tokens (key usage, EKU, TLS feature).
type MultiChoice []string

// AuthorityInformationAccess carries the CA issuer and OCSP responder URIs.
type AuthorityInformationAccess struct {
	Issuers []string
	OCSP    []string
}

// DistributionPoint carries a single CRL distribution point. FullName and
// RelativeName are alternatives; CRLIssuer holds general names.
type DistributionPoint struct {
	FullName     []string
	RelativeName string
	CRLIssuer    []string
	Reasons      []string
}

// GeneralNames is a list of general names such as "URI:http://ca.example.com"
// or "DNS:ca.example.com".
type GeneralNames []string

// Unrecognized holds a payload whose kind is unknown or does not match the
// shape its kind requires. Applying it only yields a diagnostic.
type Unrecognized struct {
	Declared ExtensionKind
	Raw      interface{}
}

func (Toggle) Kind() ExtensionKind                     { return KindToggle }
func (MultiChoice) Kind() ExtensionKind                { return KindMultiChoice }
func (AuthorityInformationAccess) Kind() ExtensionKind { return KindCompoundAIA }
func (DistributionPoint) Kind() ExtensionKind          { return KindCompoundDistributionPoint }
func (GeneralNames) Kind() ExtensionKind               { return KindGeneralNames }
func (u Unrecognized) Kind() ExtensionKind             { return u.Declared }

func (Toggle) isExtensionValue()                     {}
func (MultiChoice) isExtensionValue()                {}
func (AuthorityInformationAccess) isExtensionValue() {}
func (DistributionPoint) isExtensionValue()          {}
func (GeneralNames) isExtensionValue()               {}
func (Unrecognized) isExtensionValue()               {}

// ExtensionSpec is the configuration of one extension within a profile.
// A nil *ExtensionSpec in Profile.Extensions means "configured as absent"
// and therefore has no criticality.
type ExtensionSpec struct {
	Critical bool
	Value    ExtensionValue
}

// Profile is a named bundle of subject defaults and extension configuration.
// Profiles are immutable once loaded.
type Profile struct {
	Name        string
	Description string

	// SubjectDefaults holds defaults per subject key. A missing key leaves
	// the form field alone.
	SubjectDefaults map[SubjectKey]string

	// CNInSAN governs whether the common name is mirrored into the SAN
	// extension. nil means true.
	CNInSAN *bool

	// Extensions maps extension names to their configuration. A missing
	// name is "not configured", a nil value is "configured as absent".
	// Names outside the vocabulary are kept so they can be reported.
	Extensions map[ExtensionName]*ExtensionSpec
}

// IncludeCNInSAN resolves the CN-in-SAN policy, defaulting to true.
func (p *Profile) IncludeCNInSAN() bool {
	if p.CNInSAN == nil {
		return true
	}
	return *p.CNInSAN
}

// Extension looks up the configuration for name. configured is false when
// the profile says nothing about it; spec is nil when it is configured as absent.
func (p *Profile) Extension(name ExtensionName) (spec *ExtensionSpec, configured bool) {
	spec, configured = p.Extensions[name]
	return spec, configured
}
