package domain

// SubjectKey identifies one subject attribute a profile may default.
type SubjectKey string

const (
	SubjectCountry          SubjectKey = "C"
	SubjectState            SubjectKey = "ST"
	SubjectLocality         SubjectKey = "L"
	SubjectOrganization     SubjectKey = "O"
	SubjectOrganizationUnit SubjectKey = "OU"
	SubjectCommonName       SubjectKey = "CN"
	SubjectEmail            SubjectKey = "emailAddress"
)

// SubjectKeys returns the subject attribute vocabulary in display order.
func SubjectKeys() []SubjectKey {
	return []SubjectKey{
		SubjectCountry,
		SubjectState,
		SubjectLocality,
		SubjectOrganization,
		SubjectOrganizationUnit,
		SubjectCommonName,
		SubjectEmail,
	}
}

// IsValid reports whether k belongs to the subject vocabulary.
func (k SubjectKey) IsValid() bool {
	for _, known := range SubjectKeys() {
		if k == known {
			return true
		}
	}
	return false
}

// ExtensionKind is the shape of an extension's configuration payload.
type ExtensionKind string

const (
	KindToggle                    ExtensionKind = "toggle"
	KindMultiChoice               ExtensionKind = "multi-choice"
	KindCompoundAIA               ExtensionKind = "compound-aia"
	KindCompoundDistributionPoint ExtensionKind = "compound-distribution-point"
	KindGeneralNames              ExtensionKind = "general-names"
)

// IsValid reports whether k is one of the supported kinds.
func (k ExtensionKind) IsValid() bool {
	switch k {
	case KindToggle, KindMultiChoice, KindCompoundAIA, KindCompoundDistributionPoint, KindGeneralNames:
		return true
	}
	return false
}

// ExtensionName is the configuration name of an X.509 extension.
type ExtensionName string

const (
	ExtAuthorityInformationAccess ExtensionName = "authority_information_access"
	ExtCRLDistributionPoints      ExtensionName = "crl_distribution_points"
	ExtExtendedKeyUsage           ExtensionName = "extended_key_usage"
	ExtFreshestCRL                ExtensionName = "freshest_crl"
	ExtIssuerAlternativeName      ExtensionName = "issuer_alternative_name"
	ExtKeyUsage                   ExtensionName = "key_usage"
	ExtOCSPNoCheck                ExtensionName = "ocsp_no_check"
	ExtTLSFeature                 ExtensionName = "tls_feature"
)

var extensionKinds = map[ExtensionName]ExtensionKind{
	ExtAuthorityInformationAccess: KindCompoundAIA,
	ExtCRLDistributionPoints:      KindCompoundDistributionPoint,
	ExtExtendedKeyUsage:           KindMultiChoice,
	ExtFreshestCRL:                KindCompoundDistributionPoint,
	ExtIssuerAlternativeName:      KindGeneralNames,
	ExtKeyUsage:                   KindMultiChoice,
	ExtOCSPNoCheck:                KindToggle,
	ExtTLSFeature:                 KindMultiChoice,
}

// ExtensionNames returns the extension vocabulary in processing order.
// Profiles are always applied in this order, never in document order.
func ExtensionNames() []ExtensionName {
	return []ExtensionName{
		ExtAuthorityInformationAccess,
		ExtCRLDistributionPoints,
		ExtExtendedKeyUsage,
		ExtFreshestCRL,
		ExtIssuerAlternativeName,
		ExtKeyUsage,
		ExtOCSPNoCheck,
		ExtTLSFeature,
	}
}

// Kind returns the kind a form field for n expects. ok is false for names
// outside the vocabulary.
func (n ExtensionName) Kind() (kind ExtensionKind, ok bool) {
	kind, ok = extensionKinds[n]
	return kind, ok
}

// IsKnown reports whether n belongs to the extension vocabulary.
func (n ExtensionName) IsKnown() bool {
	_, ok := extensionKinds[n]
	return ok
}
