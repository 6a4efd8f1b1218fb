package crypto

import (
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/big"
	"net"
	"net/mail"
	"net/url"
	"strings"

	"reactor.de/certprofile/internal/domain"
)

var oidEmailAddress = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}

// Service implements the domain.TemplateBuilder interface.
type Service struct {
	extensions domain.ExtensionFactory
}

// NewService creates a new template builder backed by the given extension factory.
func NewService(extensions domain.ExtensionFactory) *Service {
	return &Service{extensions: extensions}
}

// BuildTemplate turns a form into an unsigned certificate template. Only
// included extensions are encoded, in vocabulary order.
func (s *Service) BuildTemplate(state domain.FormState) (*x509.Certificate, error) {
	template, err := s.createBaseTemplate(state.Subject)
	if err != nil {
		return nil, err
	}

	for _, san := range state.EffectiveSANs {
		addSubjectAltName(template, san)
	}

	for _, name := range domain.ExtensionNames() {
		field, ok := state.Extensions[name]
		if !ok || !field.Include {
			continue
		}
		if !s.extensions.IsRegistered(name) {
			return nil, fmt.Errorf("%w: no builder registered for extension %s", domain.ErrValidation, name)
		}
		ext := s.extensions.CreateExtension(name)
		if err := ext.ParseFromField(field); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrValidation, name, err)
		}
		if err := ext.ApplyToCertificate(template); err != nil {
			return nil, fmt.Errorf("failed to apply extension %s: %w", name, err)
		}
	}

	return template, nil
}

// SupportedExtensions returns the names of all registered extension builders.
func (s *Service) SupportedExtensions() []domain.ExtensionName {
	return s.extensions.ListExtensions()
}

// createBaseTemplate creates a base certificate template.
func (s *Service) createBaseTemplate(subject map[domain.SubjectKey]string) (*x509.Certificate, error) {
	serialNumber, err := s.newSerialNumber()
	if err != nil {
		return nil, err
	}

	pkixName := pkix.Name{
		CommonName:         subject[domain.SubjectCommonName],
		Organization:       nonEmpty(subject[domain.SubjectOrganization]),
		OrganizationalUnit: nonEmpty(subject[domain.SubjectOrganizationUnit]),
		Country:            nonEmpty(subject[domain.SubjectCountry]),
		Province:           nonEmpty(subject[domain.SubjectState]),
		Locality:           nonEmpty(subject[domain.SubjectLocality]),
	}
	if email := subject[domain.SubjectEmail]; email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: invalid subject emailAddress %q", domain.ErrValidation, email)
		}
		pkixName.ExtraNames = append(pkixName.ExtraNames, pkix.AttributeTypeAndValue{
			Type:  oidEmailAddress,
			Value: email,
		})
	}

	return &x509.Certificate{
		SerialNumber: serialNumber,
		Subject:      pkixName,
	}, nil
}

// addSubjectAltName classifies a SAN entry as IP, email, URI or DNS name.
func addSubjectAltName(template *x509.Certificate, san string) {
	if ip := net.ParseIP(san); ip != nil {
		template.IPAddresses = append(template.IPAddresses, ip)
		return
	}
	if strings.Contains(san, "@") && !strings.Contains(san, "://") {
		template.EmailAddresses = append(template.EmailAddresses, san)
		return
	}
	if strings.Contains(san, "://") {
		if uri, err := url.Parse(san); err == nil {
			template.URIs = append(template.URIs, uri)
			return
		}
	}
	template.DNSNames = append(template.DNSNames, san)
}

func nonEmpty(value string) []string {
	if value == "" {
		return nil
	}
	return []string{value}
}

// newSerialNumber generates a new, large, random serial number.
func (s *Service) newSerialNumber() (*big.Int, error) {
	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	return rand.Int(rand.Reader, serialNumberLimit)
}
