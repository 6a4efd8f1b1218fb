package extensions

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"reactor.de/certprofile/internal/domain"
)

var (
	oidAccessMethodCAIssuers = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 2}
	oidAccessMethodOCSP      = asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1}
)

// AuthorityInformationAccessExtension implements the Authority Information
// Access extension (RFC 5280 4.2.2.1) with caIssuers and OCSP URIs.
type AuthorityInformationAccessExtension struct {
	Critical bool
	Issuers  []string
	OCSP     []string
}

// Name returns the extension name as used in profiles
func (e *AuthorityInformationAccessExtension) Name() domain.ExtensionName {
	return domain.ExtAuthorityInformationAccess
}

// OID returns the Authority Information Access OID
func (e *AuthorityInformationAccessExtension) OID() asn1.ObjectIdentifier {
	return asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 1}
}

// ParseFromField reads the newline separated issuer and OCSP URIs
func (e *AuthorityInformationAccessExtension) ParseFromField(field domain.ExtensionField) error {
	e.Critical = field.Critical

	issuers, err := parseURIs(field.Issuers, "issuers")
	if err != nil {
		return err
	}
	ocsp, err := parseURIs(field.OCSP, "ocsp")
	if err != nil {
		return err
	}
	if len(issuers) == 0 && len(ocsp) == 0 {
		return fmt.Errorf("at least one issuer or OCSP URI is required")
	}

	e.Issuers = issuers
	e.OCSP = ocsp
	return nil
}

type accessDescription struct {
	Method   asn1.ObjectIdentifier
	Location asn1.RawValue
}

// ApplyToCertificate applies the extension to an x509.Certificate template
func (e *AuthorityInformationAccessExtension) ApplyToCertificate(cert *x509.Certificate) error {
	var descriptions []accessDescription
	for _, u := range e.OCSP {
		descriptions = append(descriptions, accessDescription{Method: oidAccessMethodOCSP, Location: uriGeneralName(u)})
	}
	for _, u := range e.Issuers {
		descriptions = append(descriptions, accessDescription{Method: oidAccessMethodCAIssuers, Location: uriGeneralName(u)})
	}

	value, err := asn1.Marshal(descriptions)
	if err != nil {
		return fmt.Errorf("failed to encode authority information access: %v", err)
	}

	cert.OCSPServer = append([]string(nil), e.OCSP...)
	cert.IssuingCertificateURL = append([]string(nil), e.Issuers...)
	cert.ExtraExtensions = append(cert.ExtraExtensions, pkix.Extension{
		Id:       e.OID(),
		Critical: e.Critical,
		Value:    value,
	})
	return nil
}
