package ui

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"net"
	"strings"
)

// resolveExtensionValue decodes the DER value of the extensions a profile
// can produce. Unknown or malformed values return nil.
func resolveExtensionValue(ext pkix.Extension) map[string]string {
	switch ext.Id.String() {
	case "2.5.29.15": // Key Usage
		return parseKeyUsage(ext)

	case "2.5.29.37": // Extended Key Usage
		return parseExtendedKeyUsage(ext)

	case "2.5.29.18": // Issuer Alternative Name
		return parseIssuerAltName(ext)

	case "2.5.29.31", "2.5.29.46": // CRL Distribution Points, Freshest CRL
		return parseDistributionPoints(ext)

	case "1.3.6.1.5.5.7.1.1": // Authority Information Access
		return parseAuthorityInfoAccess(ext)

	case "1.3.6.1.5.5.7.1.24": // TLS Feature
		return parseTLSFeature(ext)

	case "1.3.6.1.5.5.7.48.1.5": // OCSP No Check
		return map[string]string{"Value": "Present"}
	}
	return nil
}

// Bit positions as defined in RFC 5280, section 4.2.1.3.
var keyUsageNames = []string{
	"Digital Signature",
	"Content Commitment (Non-Repudiation)",
	"Key Encipherment",
	"Data Encipherment",
	"Key Agreement",
	"Certificate Sign",
	"CRL Sign",
	"Encipher Only",
	"Decipher Only",
}

func parseKeyUsage(ext pkix.Extension) map[string]string {
	var bits asn1.BitString
	if _, err := asn1.Unmarshal(ext.Value, &bits); err != nil {
		return nil
	}

	var usages []string
	for i, name := range keyUsageNames {
		if bits.At(i) != 0 {
			usages = append(usages, name)
		}
	}
	if len(usages) == 0 {
		return nil
	}
	return map[string]string{"Usage": strings.Join(usages, ", ")}
}

var extKeyUsageNames = map[string]string{
	"2.5.29.37.0":            "Any Extended Key Usage",
	"1.3.6.1.5.5.7.3.1":      "Server Authentication",
	"1.3.6.1.5.5.7.3.2":      "Client Authentication",
	"1.3.6.1.5.5.7.3.3":      "Code Signing",
	"1.3.6.1.5.5.7.3.4":      "Email Protection",
	"1.3.6.1.5.5.7.3.5":      "IPSec End System",
	"1.3.6.1.5.5.7.3.6":      "IPSec Tunnel",
	"1.3.6.1.5.5.7.3.7":      "IPSec User",
	"1.3.6.1.5.5.7.3.8":      "Time Stamping",
	"1.3.6.1.5.5.7.3.9":      "OCSP Signing",
	"1.3.6.1.4.1.311.20.2.2": "Microsoft Smart Card Logon",
	"1.3.6.1.5.2.3.5":        "Kerberos KDC",
}

func parseExtendedKeyUsage(ext pkix.Extension) map[string]string {
	var oids []asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(ext.Value, &oids); err != nil {
		return nil
	}

	var usages []string
	for _, oid := range oids {
		if name, ok := extKeyUsageNames[oid.String()]; ok {
			usages = append(usages, name)
		} else {
			usages = append(usages, fmt.Sprintf("Custom OID: %s", oid.String()))
		}
	}
	if len(usages) == 0 {
		return nil
	}
	return map[string]string{"Usage": strings.Join(usages, "\n")}
}

type distributionPoint struct {
	DistributionPoint distributionPointName `asn1:"optional,tag:0"`
	Reasons           asn1.BitString        `asn1:"optional,tag:1"`
	CRLIssuer         asn1.RawValue         `asn1:"optional,tag:2"`
}

type distributionPointName struct {
	FullName     []asn1.RawValue `asn1:"optional,tag:0"`
	RelativeName asn1.RawValue   `asn1:"optional,tag:1"`
}

// Bit positions as defined in RFC 5280, section 4.2.1.13.
var reasonNames = []string{
	"unused",
	"keyCompromise",
	"cACompromise",
	"affiliationChanged",
	"superseded",
	"cessationOfOperation",
	"certificateHold",
	"privilegeWithdrawn",
	"aACompromise",
}

func parseDistributionPoints(ext pkix.Extension) map[string]string {
	var points []distributionPoint
	if _, err := asn1.Unmarshal(ext.Value, &points); err != nil {
		return nil
	}

	var urls, relative, issuers, reasons []string
	for _, dp := range points {
		for _, name := range dp.DistributionPoint.FullName {
			if name.Tag == 6 {
				urls = append(urls, string(name.Bytes))
			} else {
				urls = append(urls, formatGeneralName(name))
			}
		}
		if rdn := formatRelativeName(dp.DistributionPoint.RelativeName.Bytes); rdn != "" {
			relative = append(relative, rdn)
		}
		for _, name := range splitElements(dp.CRLIssuer.Bytes) {
			issuers = append(issuers, formatGeneralName(name))
		}
		for i, reason := range reasonNames {
			if dp.Reasons.At(i) != 0 {
				reasons = append(reasons, reason)
			}
		}
	}

	values := make(map[string]string)
	if len(urls) > 0 {
		values["Distribution Points"] = strings.Join(urls, "\n")
	}
	if len(relative) > 0 {
		values["Relative Name"] = strings.Join(relative, "\n")
	}
	if len(issuers) > 0 {
		values["CRL Issuer"] = strings.Join(issuers, "\n")
	}
	if len(reasons) > 0 {
		values["Reasons"] = strings.Join(reasons, ", ")
	}
	return values
}

func parseIssuerAltName(ext pkix.Extension) map[string]string {
	var names []asn1.RawValue
	if _, err := asn1.Unmarshal(ext.Value, &names); err != nil {
		return nil
	}

	var lines []string
	for _, name := range names {
		lines = append(lines, formatGeneralName(name))
	}
	if len(lines) == 0 {
		return nil
	}
	return map[string]string{"Names": strings.Join(lines, "\n")}
}

// formatGeneralName renders a GeneralName in the typed form used by profiles.
func formatGeneralName(name asn1.RawValue) string {
	switch name.Tag {
	case 1:
		return "email:" + string(name.Bytes)
	case 2:
		return "DNS:" + string(name.Bytes)
	case 4:
		var rdns pkix.RDNSequence
		if _, err := asn1.Unmarshal(name.Bytes, &rdns); err != nil {
			break
		}
		var n pkix.Name
		n.FillFromRDNSequence(&rdns)
		return "dirname:" + n.String()
	case 6:
		return "URI:" + string(name.Bytes)
	case 7:
		return "IP:" + net.IP(name.Bytes).String()
	}
	return fmt.Sprintf("Unknown Name [%d]: %x", name.Tag, name.Bytes)
}

// formatRelativeName renders the attributes of a relative distinguished
// name as "CN=crl1+O=Example".
func formatRelativeName(der []byte) string {
	var parts []string
	for _, raw := range splitElements(der) {
		var atv pkix.AttributeTypeAndValue
		if _, err := asn1.Unmarshal(raw.FullBytes, &atv); err != nil {
			continue
		}
		rdns := pkix.RDNSequence{{atv}}
		parts = append(parts, rdns.String())
	}
	return strings.Join(parts, "+")
}

// splitElements splits concatenated DER elements, stopping at the first
// malformed one.
func splitElements(der []byte) []asn1.RawValue {
	var out []asn1.RawValue
	for len(der) > 0 {
		var rv asn1.RawValue
		rest, err := asn1.Unmarshal(der, &rv)
		if err != nil {
			break
		}
		out = append(out, rv)
		der = rest
	}
	return out
}

type accessDescription struct {
	Method   asn1.ObjectIdentifier
	Location asn1.RawValue
}

func parseAuthorityInfoAccess(ext pkix.Extension) map[string]string {
	var descriptions []accessDescription
	if _, err := asn1.Unmarshal(ext.Value, &descriptions); err != nil {
		return nil
	}

	var info []string
	for _, desc := range descriptions {
		method := "Unknown Method"
		switch desc.Method.String() {
		case "1.3.6.1.5.5.7.48.1":
			method = "OCSP"
		case "1.3.6.1.5.5.7.48.2":
			method = "CA Issuers"
		}
		info = append(info, fmt.Sprintf("%s: %s", method, string(desc.Location.Bytes)))
	}
	if len(info) == 0 {
		return nil
	}
	return map[string]string{"Access Information": strings.Join(info, "\n")}
}

func parseTLSFeature(ext pkix.Extension) map[string]string {
	var features []int
	if _, err := asn1.Unmarshal(ext.Value, &features); err != nil {
		return nil
	}

	var names []string
	for _, feature := range features {
		switch feature {
		case 5:
			names = append(names, "status_request (OCSP Must-Staple)")
		case 17:
			names = append(names, "status_request_v2")
		default:
			names = append(names, fmt.Sprintf("Unknown Feature %d", feature))
		}
	}
	if len(names) == 0 {
		return nil
	}
	return map[string]string{"TLS Features": strings.Join(names, "\n")}
}
