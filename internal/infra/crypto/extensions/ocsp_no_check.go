package extensions

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"

	"reactor.de/certprofile/internal/domain"
)

// OCSPNoCheckExtension implements id-pkix-ocsp-nocheck (RFC 6960 4.2.2.2.1).
// Its value is always NULL.
type OCSPNoCheckExtension struct {
	Critical bool
}

// Name returns the extension name as used in profiles
func (e *OCSPNoCheckExtension) Name() domain.ExtensionName {
	return domain.ExtOCSPNoCheck
}

// OID returns the OCSP No Check OID
func (e *OCSPNoCheckExtension) OID() asn1.ObjectIdentifier {
	return asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 48, 1, 5}
}

// ParseFromField only reads criticality
func (e *OCSPNoCheckExtension) ParseFromField(field domain.ExtensionField) error {
	e.Critical = field.Critical
	return nil
}

// ApplyToCertificate adds the extension with a NULL value
func (e *OCSPNoCheckExtension) ApplyToCertificate(cert *x509.Certificate) error {
	cert.ExtraExtensions = append(cert.ExtraExtensions, pkix.Extension{
		Id:       e.OID(),
		Critical: e.Critical,
		Value:    asn1.NullBytes,
	})
	return nil
}
