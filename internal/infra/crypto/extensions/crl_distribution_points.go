package extensions

import (
	"bytes"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"slices"
	"strings"

	"reactor.de/certprofile/internal/domain"
)

// DistributionPointsExtension implements the CRL Distribution Points and
// Freshest CRL extensions, which share the CRLDistributionPoints syntax.
type DistributionPointsExtension struct {
	name         domain.ExtensionName
	oid          asn1.ObjectIdentifier
	Critical     bool
	URLs         []string
	RelativeName pkix.RelativeDistinguishedNameSET
	CRLIssuer    []asn1.RawValue
	Reasons      []string
}

// NewCRLDistributionPointsExtension returns a builder for id-ce-cRLDistributionPoints.
func NewCRLDistributionPointsExtension() *DistributionPointsExtension {
	return &DistributionPointsExtension{
		name: domain.ExtCRLDistributionPoints,
		oid:  asn1.ObjectIdentifier{2, 5, 29, 31},
	}
}

// NewFreshestCRLExtension returns a builder for id-ce-freshestCRL.
func NewFreshestCRLExtension() *DistributionPointsExtension {
	return &DistributionPointsExtension{
		name: domain.ExtFreshestCRL,
		oid:  asn1.ObjectIdentifier{2, 5, 29, 46},
	}
}

// Name returns the extension name as used in profiles
func (e *DistributionPointsExtension) Name() domain.ExtensionName {
	return e.name
}

// OID returns the extension OID
func (e *DistributionPointsExtension) OID() asn1.ObjectIdentifier {
	return e.oid
}

// ParseFromField reads one distribution point. FullName holds one URL per
// line, RelativeName names the point relative to the CRL issuer, CRLIssuer
// holds general names and Values holds optional revocation reasons.
//
// Example field:
//
//	full_name: |
//	  http://crl.example.com/ca.crl
//	  ldap://ldap.example.com/cn=CA,dc=example,dc=com
//	values: [key_compromise, ca_compromise]
func (e *DistributionPointsExtension) ParseFromField(field domain.ExtensionField) error {
	e.Critical = field.Critical

	urls, err := parseURIs(field.FullName, "full_name")
	if err != nil {
		return err
	}
	e.URLs = urls

	e.RelativeName = nil
	if rn := strings.TrimSpace(field.RelativeName); rn != "" {
		if len(urls) > 0 {
			return fmt.Errorf("full_name and relative_name are mutually exclusive")
		}
		if e.RelativeName, err = parseRelativeName(rn); err != nil {
			return fmt.Errorf("relative_name: %v", err)
		}
	}

	if e.CRLIssuer, err = parseGeneralNames(field.CRLIssuer, "crl_issuer"); err != nil {
		return err
	}

	if len(e.URLs) == 0 && e.RelativeName == nil && len(e.CRLIssuer) == 0 {
		return fmt.Errorf("full_name, relative_name or crl_issuer is required")
	}

	e.Reasons = nil
	for i, reason := range field.Values {
		if getCRLReasonBit(reason) < 0 {
			return fmt.Errorf("reasons[%d] is not a valid CRL reason: %s", i, reason)
		}
		e.Reasons = append(e.Reasons, reason)
	}

	return nil
}

// ApplyToCertificate applies the extension to an x509.Certificate template.
func (e *DistributionPointsExtension) ApplyToCertificate(cert *x509.Certificate) error {
	asn1Data, err := e.encodeASN1()
	if err != nil {
		return fmt.Errorf("failed to encode %s as ASN.1: %v", e.name, err)
	}

	if e.name == domain.ExtCRLDistributionPoints && len(e.URLs) > 0 {
		cert.CRLDistributionPoints = append([]string(nil), e.URLs...)
	}
	cert.ExtraExtensions = append(cert.ExtraExtensions, pkix.Extension{
		Id:       e.OID(),
		Critical: e.Critical,
		Value:    asn1Data,
	})
	return nil
}

// ASN.1 structures for CRL Distribution Points. The name and issuer are
// prebuilt because DistributionPointName is a CHOICE.
type distributionPoint struct {
	DistributionPoint asn1.RawValue  `asn1:"optional"`
	Reasons           asn1.BitString `asn1:"optional,tag:1"`
	CRLIssuer         asn1.RawValue  `asn1:"optional"`
}

// uriGeneralName encodes a uniformResourceIdentifier GeneralName.
func uriGeneralName(uri string) asn1.RawValue {
	return asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: tagURI, Bytes: []byte(uri)}
}

// implicitSet re-tags a SET or SEQUENCE OF as the context specific tag.
func implicitSet(tag int, elements []asn1.RawValue) (asn1.RawValue, error) {
	var body []byte
	for _, el := range elements {
		der, err := asn1.Marshal(el)
		if err != nil {
			return asn1.RawValue{}, err
		}
		body = append(body, der...)
	}
	return asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: tag, IsCompound: true, Bytes: body}, nil
}

// distributionPointName builds the explicitly tagged [0] DistributionPointName.
func (e *DistributionPointsExtension) distributionPointName() (asn1.RawValue, error) {
	var choice asn1.RawValue
	var err error
	switch {
	case len(e.URLs) > 0:
		names := make([]asn1.RawValue, 0, len(e.URLs))
		for _, u := range e.URLs {
			names = append(names, uriGeneralName(u))
		}
		choice, err = implicitSet(0, names)
	case e.RelativeName != nil:
		attrs := make([]asn1.RawValue, 0, len(e.RelativeName))
		for _, atv := range e.RelativeName {
			der, mErr := asn1.Marshal(atv)
			if mErr != nil {
				return asn1.RawValue{}, mErr
			}
			attrs = append(attrs, asn1.RawValue{FullBytes: der})
		}
		// DER orders the members of a SET OF by their encoding.
		slices.SortFunc(attrs, func(a, b asn1.RawValue) int { return bytes.Compare(a.FullBytes, b.FullBytes) })
		choice, err = implicitSet(1, attrs)
	default:
		return asn1.RawValue{}, nil
	}
	if err != nil {
		return asn1.RawValue{}, err
	}

	der, err := asn1.Marshal(choice)
	if err != nil {
		return asn1.RawValue{}, err
	}
	return asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: der}, nil
}

// encodeASN1 encodes the distribution point according to RFC 5280
func (e *DistributionPointsExtension) encodeASN1() ([]byte, error) {
	distPoint := distributionPoint{}

	name, err := e.distributionPointName()
	if err != nil {
		return nil, err
	}
	distPoint.DistributionPoint = name

	if len(e.CRLIssuer) > 0 {
		if distPoint.CRLIssuer, err = implicitSet(2, e.CRLIssuer); err != nil {
			return nil, err
		}
	}

	if len(e.Reasons) > 0 {
		reasonFlags := asn1.BitString{}
		for _, reason := range e.Reasons {
			bit := getCRLReasonBit(reason)
			if bit < 0 {
				continue
			}
			if bit >= len(reasonFlags.Bytes)*8 {
				newBytes := make([]byte, bit/8+1)
				copy(newBytes, reasonFlags.Bytes)
				reasonFlags.Bytes = newBytes
			}
			reasonFlags.Bytes[bit/8] |= 1 << (7 - bit%8) // MSB first
			if bit+1 > reasonFlags.BitLength {
				reasonFlags.BitLength = bit + 1
			}
		}
		distPoint.Reasons = reasonFlags
	}

	return asn1.Marshal([]distributionPoint{distPoint})
}

// getCRLReasonBit returns the bit position for a CRL reason, or -1
func getCRLReasonBit(reason string) int {
	reasonBits := map[string]int{
		"unused":                 0,
		"unspecified":            0,
		"key_compromise":         1,
		"ca_compromise":          2,
		"affiliation_changed":    3,
		"superseded":             4,
		"cessation_of_operation": 5,
		"certificate_hold":       6,
		"privilege_withdrawn":    7,
		"aa_compromise":          8,
	}

	if bit, ok := reasonBits[reason]; ok {
		return bit
	}
	return -1
}
