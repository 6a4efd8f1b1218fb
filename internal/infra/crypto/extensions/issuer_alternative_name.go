package extensions

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"reactor.de/certprofile/internal/domain"
)

// IssuerAlternativeNameExtension implements the Issuer Alternative Name
// extension (RFC 5280 4.2.1.7).
type IssuerAlternativeNameExtension struct {
	Critical bool
	Names    []asn1.RawValue
}

// Name returns the extension name as used in profiles
func (e *IssuerAlternativeNameExtension) Name() domain.ExtensionName {
	return domain.ExtIssuerAlternativeName
}

// OID returns the Issuer Alternative Name OID
func (e *IssuerAlternativeNameExtension) OID() asn1.ObjectIdentifier {
	return asn1.ObjectIdentifier{2, 5, 29, 18}
}

// ParseFromField reads one general name per line.
//
// Example field:
//
//	names: |
//	  URI:https://ca.example.com
//	  email:ca@example.com
func (e *IssuerAlternativeNameExtension) ParseFromField(field domain.ExtensionField) error {
	e.Critical = field.Critical

	names, err := parseGeneralNames(field.Names, "names")
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("names must contain at least one general name")
	}
	e.Names = names
	return nil
}

// ApplyToCertificate applies the extension to an x509.Certificate template
func (e *IssuerAlternativeNameExtension) ApplyToCertificate(cert *x509.Certificate) error {
	value, err := asn1.Marshal(e.Names)
	if err != nil {
		return fmt.Errorf("failed to encode issuer alternative name: %v", err)
	}

	cert.ExtraExtensions = append(cert.ExtraExtensions, pkix.Extension{
		Id:       e.OID(),
		Critical: e.Critical,
		Value:    value,
	})
	return nil
}
