package extensions

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"

	"reactor.de/certprofile/internal/domain"
)

// KeyUsageExtension implements the X.509 Key Usage extension (RFC 5280)
type KeyUsageExtension struct {
	Critical bool
	Usage    x509.KeyUsage
}

// keyUsageBits maps normalized tokens to their bit, accepting both the
// RFC names (digitalSignature) and the snake_case names (digital_signature).
var keyUsageBits = map[string]x509.KeyUsage{
	"digitalsignature":  x509.KeyUsageDigitalSignature,
	"contentcommitment": x509.KeyUsageContentCommitment,
	"nonrepudiation":    x509.KeyUsageContentCommitment,
	"keyencipherment":   x509.KeyUsageKeyEncipherment,
	"dataencipherment":  x509.KeyUsageDataEncipherment,
	"keyagreement":      x509.KeyUsageKeyAgreement,
	"keycertsign":       x509.KeyUsageCertSign,
	"crlsign":           x509.KeyUsageCRLSign,
	"encipheronly":      x509.KeyUsageEncipherOnly,
	"decipheronly":      x509.KeyUsageDecipherOnly,
}

// Name returns the extension name as used in profiles
func (e *KeyUsageExtension) Name() domain.ExtensionName {
	return domain.ExtKeyUsage
}

// OID returns the Key Usage OID
func (e *KeyUsageExtension) OID() asn1.ObjectIdentifier {
	return asn1.ObjectIdentifier{2, 5, 29, 15}
}

// ParseFromField reads the selected key usage tokens
func (e *KeyUsageExtension) ParseFromField(field domain.ExtensionField) error {
	e.Critical = field.Critical
	e.Usage = 0

	if len(field.Values) == 0 {
		return fmt.Errorf("at least one key usage must be selected")
	}
	for _, token := range field.Values {
		bit, ok := keyUsageBits[normalizeToken(token)]
		if !ok {
			return fmt.Errorf("unknown key usage: %s", token)
		}
		e.Usage |= bit
	}

	return nil
}

// ApplyToCertificate applies the Key Usage extension to an x509.Certificate template.
// The encoded extension is added explicitly so that criticality is honored.
func (e *KeyUsageExtension) ApplyToCertificate(cert *x509.Certificate) error {
	value, err := marshalKeyUsage(e.Usage)
	if err != nil {
		return fmt.Errorf("failed to encode key usage: %v", err)
	}

	cert.KeyUsage = e.Usage
	cert.ExtraExtensions = append(cert.ExtraExtensions, pkix.Extension{
		Id:       e.OID(),
		Critical: e.Critical,
		Value:    value,
	})
	return nil
}

// marshalKeyUsage encodes the usage as a minimal DER BIT STRING, bit 0 being
// the most significant bit of the first byte.
func marshalKeyUsage(ku x509.KeyUsage) ([]byte, error) {
	var a [2]byte
	bitLength := 0
	for bit := 0; bit < 9; bit++ {
		if ku&(1<<bit) != 0 {
			a[bit/8] |= 0x80 >> (bit % 8)
			bitLength = bit + 1
		}
	}

	n := 1
	if bitLength > 8 {
		n = 2
	}
	return asn1.Marshal(asn1.BitString{Bytes: a[:n], BitLength: bitLength})
}
