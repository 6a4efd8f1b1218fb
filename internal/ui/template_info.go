package ui

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/message"

	"reactor.de/certprofile/internal/localedate"
)

var extensionNames = map[string]string{
	"2.5.29.15":            "Key Usage",
	"2.5.29.17":            "Subject Alternative Name",
	"2.5.29.18":            "Issuer Alternative Name",
	"2.5.29.31":            "CRL Distribution Points",
	"2.5.29.37":            "Extended Key Usage",
	"2.5.29.46":            "Freshest CRL",
	"1.3.6.1.5.5.7.1.1":    "Authority Information Access",
	"1.3.6.1.5.5.7.1.24":   "TLS Feature",
	"1.3.6.1.5.5.7.48.1.5": "OCSP No Check",
}

// ExtensionLabel returns the display name of an extension OID, or the
// dotted OID when it is not known.
func ExtensionLabel(oid asn1.ObjectIdentifier) string {
	if name, ok := extensionNames[oid.String()]; ok {
		return name
	}
	return oid.String()
}

// PrintTemplateInfo displays an unsigned certificate template built from a form.
func PrintTemplateInfo(id string, cert *x509.Certificate) {
	p := message.NewPrinter(localedate.UserLocale())

	fmt.Println()
	fmt.Printf("%s %s\n", green(bold("CERTIFICATE TEMPLATE")), id)
	fmt.Printf("   %s %x\n", cyan(fmt.Sprintf("%-13s", "Serial")), cert.SerialNumber)
	if subject := cert.Subject.String(); subject != "" {
		fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", "Subject")), subject)
	}

	if hasSubjectAltNames(cert) {
		fmt.Printf("\n%s\n", green(bold("SUBJECT NAMES")))
		printLabeled("DNS", cert.DNSNames)
		var ips []string
		for _, ip := range cert.IPAddresses {
			ips = append(ips, ip.String())
		}
		printLabeled("IP Address", ips)
		printLabeled("Email", cert.EmailAddresses)
		var uris []string
		for _, uri := range cert.URIs {
			uris = append(uris, uri.String())
		}
		printLabeled("URI", uris)
	}

	if len(cert.ExtraExtensions) == 0 {
		return
	}

	fmt.Printf("\n%s\n", green(bold("EXTENSIONS")))
	var encoded int
	for _, ext := range cert.ExtraExtensions {
		encoded += len(ext.Value)
		printExtension(ext)
	}
	fmt.Printf("\n   %s\n", red("(! = critical)"))
	fmt.Println(p.Sprintf("   %d extensions, %d bytes DER", len(cert.ExtraExtensions), encoded))
}

func hasSubjectAltNames(cert *x509.Certificate) bool {
	return len(cert.DNSNames) > 0 || len(cert.IPAddresses) > 0 || len(cert.EmailAddresses) > 0 || len(cert.URIs) > 0
}

// printLabeled prints values one per line, labelling only the first.
func printLabeled(label string, values []string) {
	for i, v := range values {
		if i > 0 {
			label = ""
		}
		fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", label)), v)
	}
}

func printExtension(ext pkix.Extension) {
	oidStr := ext.Id.String()
	name, known := extensionNames[oidStr]
	if !known {
		name = oidStr
	}

	displayName := cyan(name)
	if ext.Critical {
		displayName = displayName + red(" !")
	}
	if known {
		fmt.Printf("   %s\n", displayName)
	} else {
		fmt.Printf("   %s %s\n", displayName, oidStr)
	}

	values := resolveExtensionValue(ext)
	if len(values) == 0 {
		fmt.Printf("     %s %s\n", cyan("Raw Data:"), hex.EncodeToString(ext.Value))
		return
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values[key]
		if strings.Contains(value, "\n") {
			fmt.Printf("     %s\n%s\n", cyan(key+":"), indentText(value, "       "))
		} else {
			fmt.Printf("     %s %s\n", cyan(key+":"), value)
		}
	}
}

func indentText(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
