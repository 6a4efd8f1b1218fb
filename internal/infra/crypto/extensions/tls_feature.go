package extensions

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"reactor.de/certprofile/internal/domain"
)

// TLSFeatureExtension implements the TLS Feature extension (RFC 7633)
type TLSFeatureExtension struct {
	Critical bool
	Features []int
}

var tlsFeatureTokens = map[string]int{
	"ocspmuststaple":            5,
	"statusrequest":             5,
	"multiplecertstatusrequest": 17,
	"statusrequestv2":           17,
}

// Name returns the extension name as used in profiles
func (e *TLSFeatureExtension) Name() domain.ExtensionName {
	return domain.ExtTLSFeature
}

// OID returns the TLS Feature OID
func (e *TLSFeatureExtension) OID() asn1.ObjectIdentifier {
	return asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 24}
}

// ParseFromField reads the selected TLS extension features
func (e *TLSFeatureExtension) ParseFromField(field domain.ExtensionField) error {
	e.Critical = field.Critical
	e.Features = nil

	if len(field.Values) == 0 {
		return fmt.Errorf("at least one TLS feature must be selected")
	}
	seen := make(map[int]bool)
	for _, token := range field.Values {
		feature, ok := tlsFeatureTokens[normalizeToken(token)]
		if !ok {
			return fmt.Errorf("unknown TLS feature: %s", token)
		}
		if !seen[feature] {
			seen[feature] = true
			e.Features = append(e.Features, feature)
		}
	}

	return nil
}

// ApplyToCertificate adds the encoded feature list as an extra extension
func (e *TLSFeatureExtension) ApplyToCertificate(cert *x509.Certificate) error {
	value, err := asn1.Marshal(e.Features)
	if err != nil {
		return fmt.Errorf("failed to encode TLS feature: %v", err)
	}

	cert.ExtraExtensions = append(cert.ExtraExtensions, pkix.Extension{
		Id:       e.OID(),
		Critical: e.Critical,
		Value:    value,
	})
	return nil
}
