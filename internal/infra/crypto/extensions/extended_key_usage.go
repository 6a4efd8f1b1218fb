package extensions

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"strconv"
	"strings"

	"reactor.de/certprofile/internal/domain"
)

// ExtendedKeyUsageExtension implements the X.509 Extended Key Usage extension (RFC 5280)
type ExtendedKeyUsageExtension struct {
	Critical bool
	Usages   []asn1.ObjectIdentifier
}

type extKeyUsageEntry struct {
	oid   asn1.ObjectIdentifier
	usage x509.ExtKeyUsage
}

var extKeyUsageTokens = map[string]extKeyUsageEntry{
	"serverauth":          {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 1}, x509.ExtKeyUsageServerAuth},
	"clientauth":          {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 2}, x509.ExtKeyUsageClientAuth},
	"codesigning":         {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 3}, x509.ExtKeyUsageCodeSigning},
	"emailprotection":     {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 4}, x509.ExtKeyUsageEmailProtection},
	"ipsecendsystem":      {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 5}, x509.ExtKeyUsageIPSECEndSystem},
	"ipsectunnel":         {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 6}, x509.ExtKeyUsageIPSECTunnel},
	"ipsecuser":           {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 7}, x509.ExtKeyUsageIPSECUser},
	"timestamping":        {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 8}, x509.ExtKeyUsageTimeStamping},
	"ocspsigning":         {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 3, 9}, x509.ExtKeyUsageOCSPSigning},
	"anyextendedkeyusage": {asn1.ObjectIdentifier{2, 5, 29, 37, 0}, x509.ExtKeyUsageAny},
	"smartcardlogon":      {asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 20, 2, 2}, -1},
	"mskdc":               {asn1.ObjectIdentifier{1, 3, 6, 1, 5, 2, 3, 5}, -1},
}

// Name returns the extension name as used in profiles
func (e *ExtendedKeyUsageExtension) Name() domain.ExtensionName {
	return domain.ExtExtendedKeyUsage
}

// OID returns the Extended Key Usage OID
func (e *ExtendedKeyUsageExtension) OID() asn1.ObjectIdentifier {
	return asn1.ObjectIdentifier{2, 5, 29, 37}
}

// ParseFromField reads the selected usages. Each value is either a known
// token such as serverAuth or a dotted OID like 1.3.6.1.5.5.7.3.17.
func (e *ExtendedKeyUsageExtension) ParseFromField(field domain.ExtensionField) error {
	e.Critical = field.Critical
	e.Usages = nil

	if len(field.Values) == 0 {
		return fmt.Errorf("at least one extended key usage must be selected")
	}
	for _, token := range field.Values {
		if entry, ok := extKeyUsageTokens[normalizeToken(token)]; ok {
			e.Usages = append(e.Usages, entry.oid)
			continue
		}
		if err := validateOIDString(token); err != nil {
			return fmt.Errorf("unknown extended key usage %s: %v", token, err)
		}
		oid, err := parseOIDString(token)
		if err != nil {
			return err
		}
		e.Usages = append(e.Usages, oid)
	}

	return nil
}

// ApplyToCertificate applies the Extended Key Usage extension to an x509.Certificate template
func (e *ExtendedKeyUsageExtension) ApplyToCertificate(cert *x509.Certificate) error {
	var extKeyUsage []x509.ExtKeyUsage
	var unknownExtKeyUsage []asn1.ObjectIdentifier

	for _, oid := range e.Usages {
		if usage, ok := knownExtKeyUsage(oid); ok {
			extKeyUsage = append(extKeyUsage, usage)
		} else {
			unknownExtKeyUsage = append(unknownExtKeyUsage, oid)
		}
	}

	value, err := asn1.Marshal(e.Usages)
	if err != nil {
		return fmt.Errorf("failed to encode extended key usage: %v", err)
	}

	cert.ExtKeyUsage = extKeyUsage
	cert.UnknownExtKeyUsage = unknownExtKeyUsage
	cert.ExtraExtensions = append(cert.ExtraExtensions, pkix.Extension{
		Id:       e.OID(),
		Critical: e.Critical,
		Value:    value,
	})

	return nil
}

func knownExtKeyUsage(oid asn1.ObjectIdentifier) (x509.ExtKeyUsage, bool) {
	for _, entry := range extKeyUsageTokens {
		if entry.usage >= 0 && entry.oid.Equal(oid) {
			return entry.usage, true
		}
	}
	return 0, false
}

// validateOIDString validates that a string represents a valid ASN.1 object identifier
func validateOIDString(oidStr string) error {
	parts := strings.Split(oidStr, ".")
	if len(parts) < 2 {
		return fmt.Errorf("OID must have at least 2 components")
	}

	for i, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("OID component %d is not a number: %s", i, part)
		}
		if num < 0 {
			return fmt.Errorf("OID component %d must be non-negative: %d", i, num)
		}
		// First component must be 0, 1, or 2
		if i == 0 && num > 2 {
			return fmt.Errorf("first OID component must be 0, 1, or 2: %d", num)
		}
		// Second component must be 0-39 if first is 0 or 1
		if i == 1 {
			firstNum, _ := strconv.Atoi(parts[0])
			if firstNum < 2 && num > 39 {
				return fmt.Errorf("second OID component must be 0-39 when first is %d: %d", firstNum, num)
			}
		}
	}

	return nil
}

// parseOIDString converts a string OID to asn1.ObjectIdentifier
func parseOIDString(oidStr string) (asn1.ObjectIdentifier, error) {
	parts := strings.Split(oidStr, ".")
	oid := make(asn1.ObjectIdentifier, len(parts))

	for i, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid OID component: %s", part)
		}
		oid[i] = num
	}

	return oid, nil
}
