package extensions

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// GeneralName tags, RFC 5280 section 4.2.1.6.
const (
	tagRFC822Name    = 1
	tagDNSName       = 2
	tagDirectoryName = 4
	tagURI           = 6
	tagIPAddress     = 7
)

var attributeOIDs = map[string]asn1.ObjectIdentifier{
	"C":            {2, 5, 4, 6},
	"ST":           {2, 5, 4, 8},
	"L":            {2, 5, 4, 7},
	"O":            {2, 5, 4, 10},
	"OU":           {2, 5, 4, 11},
	"CN":           {2, 5, 4, 3},
	"emailAddress": {1, 2, 840, 113549, 1, 9, 1},
}

// parseGeneralNames parses a newline separated list of general names.
func parseGeneralNames(value, field string) ([]asn1.RawValue, error) {
	var names []asn1.RawValue
	for i, line := range splitLines(value) {
		name, err := parseGeneralName(line)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %v", field, i, err)
		}
		names = append(names, name)
	}
	return names, nil
}

// parseGeneralName accepts a typed name such as "DNS:example.com",
// "URI:http://example.com", "email:ca@example.com", "IP:192.0.2.1" or
// "dirname:/C=AT/CN=Example CA". Untyped names are classified the same way
// subject alternative names are.
func parseGeneralName(s string) (asn1.RawValue, error) {
	prefix, value, typed := strings.Cut(s, ":")
	if typed {
		switch strings.ToLower(prefix) {
		case "dns":
			return dnsGeneralName(value)
		case "uri":
			return uriName(value)
		case "email":
			return emailGeneralName(value)
		case "ip":
			return ipGeneralName(value)
		case "dirname":
			return directoryGeneralName(value)
		}
	}

	switch {
	case net.ParseIP(s) != nil:
		return ipGeneralName(s)
	case strings.Contains(s, "://"):
		return uriName(s)
	case strings.Contains(s, "@"):
		return emailGeneralName(s)
	case strings.HasPrefix(s, "/"):
		return directoryGeneralName(s)
	}
	return dnsGeneralName(s)
}

func contextName(tag int, value string) asn1.RawValue {
	return asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: tag, Bytes: []byte(value)}
}

func dnsGeneralName(value string) (asn1.RawValue, error) {
	if value == "" || strings.ContainsAny(value, " /@") {
		return asn1.RawValue{}, fmt.Errorf("invalid DNS name %q", value)
	}
	return contextName(tagDNSName, value), nil
}

func uriName(value string) (asn1.RawValue, error) {
	parsed, err := url.Parse(value)
	if err != nil {
		return asn1.RawValue{}, fmt.Errorf("invalid URI %q: %v", value, err)
	}
	if parsed.Scheme == "" {
		return asn1.RawValue{}, fmt.Errorf("URI has no scheme: %s", value)
	}
	return contextName(tagURI, value), nil
}

func emailGeneralName(value string) (asn1.RawValue, error) {
	local, domain, ok := strings.Cut(value, "@")
	if !ok || local == "" || domain == "" {
		return asn1.RawValue{}, fmt.Errorf("invalid email address %q", value)
	}
	return contextName(tagRFC822Name, value), nil
}

func ipGeneralName(value string) (asn1.RawValue, error) {
	ip := net.ParseIP(value)
	if ip == nil {
		return asn1.RawValue{}, fmt.Errorf("invalid IP address %q", value)
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	return asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: tagIPAddress, Bytes: ip}, nil
}

// directoryGeneralName encodes "/C=AT/O=Example/CN=Example CA" as an
// explicitly tagged Name.
func directoryGeneralName(value string) (asn1.RawValue, error) {
	var rdns pkix.RDNSequence
	for _, part := range strings.Split(strings.TrimPrefix(value, "/"), "/") {
		if part == "" {
			continue
		}
		atv, err := parseAttribute(part)
		if err != nil {
			return asn1.RawValue{}, err
		}
		rdns = append(rdns, pkix.RelativeDistinguishedNameSET{atv})
	}
	if len(rdns) == 0 {
		return asn1.RawValue{}, fmt.Errorf("empty directory name")
	}

	der, err := asn1.Marshal(rdns)
	if err != nil {
		return asn1.RawValue{}, err
	}
	return asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: tagDirectoryName, IsCompound: true, Bytes: der}, nil
}

// parseRelativeName parses a relative distinguished name such as
// "CN=crl1" or "CN=crl1+O=Example" into its attributes.
func parseRelativeName(value string) (pkix.RelativeDistinguishedNameSET, error) {
	var rdn pkix.RelativeDistinguishedNameSET
	for _, part := range strings.Split(value, "+") {
		atv, err := parseAttribute(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		rdn = append(rdn, atv)
	}
	return rdn, nil
}

func parseAttribute(s string) (pkix.AttributeTypeAndValue, error) {
	key, value, ok := strings.Cut(s, "=")
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if !ok || value == "" {
		return pkix.AttributeTypeAndValue{}, fmt.Errorf("attribute must be key=value: %q", s)
	}
	oid, known := attributeOIDs[key]
	if !known {
		return pkix.AttributeTypeAndValue{}, fmt.Errorf("unknown attribute %q", key)
	}
	return pkix.AttributeTypeAndValue{Type: oid, Value: value}, nil
}
