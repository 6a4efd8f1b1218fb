//go:build !integration && !e2e

package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactor.de/certprofile/internal/domain"
	"reactor.de/certprofile/internal/infra/crypto/extensions"
)

func webserverForm() domain.FormState {
	state := domain.NewFormState()
	state.Profile = "webserver"
	state.Subject[domain.SubjectCommonName] = "www.example.com"
	state.Subject[domain.SubjectOrganization] = "Example Org"
	state.Subject[domain.SubjectEmail] = "admin@example.com"
	state.EffectiveSANs = []string{"example.com", "192.0.2.1", "ops@example.com", "https://example.com/id", "www.example.com"}
	state.Extensions[domain.ExtKeyUsage] = domain.ExtensionField{
		Include:  true,
		Critical: true,
		Values:   []string{"digitalSignature", "keyAgreement", "keyEncipherment"},
	}
	state.Extensions[domain.ExtExtendedKeyUsage] = domain.ExtensionField{
		Include: true,
		Values:  []string{"serverAuth"},
	}
	state.Extensions[domain.ExtAuthorityInformationAccess] = domain.ExtensionField{
		Include: true,
		Issuers: "http://ca.example.com/ca.der",
		OCSP:    "http://ocsp.example.com",
	}
	state.Extensions[domain.ExtCRLDistributionPoints] = domain.ExtensionField{
		Include:  true,
		FullName: "http://crl.example.com/ca.crl",
	}
	state.Extensions[domain.ExtTLSFeature] = domain.ExtensionField{
		Include: false,
		Values:  []string{"OCSPMustStaple"},
	}
	return state
}

func TestService_BuildTemplate(t *testing.T) {
	svc := NewService(extensions.NewRegistry())

	template, err := svc.BuildTemplate(webserverForm())
	require.NoError(t, err)

	assert.Equal(t, "www.example.com", template.Subject.CommonName)
	assert.Equal(t, []string{"Example Org"}, template.Subject.Organization)
	assert.Empty(t, template.Subject.Country)
	assert.Equal(t, []string{"example.com", "www.example.com"}, template.DNSNames)
	assert.Equal(t, []string{"ops@example.com"}, template.EmailAddresses)
	require.Len(t, template.IPAddresses, 1)
	assert.Equal(t, "192.0.2.1", template.IPAddresses[0].String())
	require.Len(t, template.URIs, 1)
	assert.Equal(t, "https://example.com/id", template.URIs[0].String())

	// Excluded tls_feature must not be encoded; the rest follow vocabulary order.
	var labels []string
	for _, ext := range template.ExtraExtensions {
		labels = append(labels, ext.Id.String())
	}
	assert.Equal(t, []string{"1.3.6.1.5.5.7.1.1", "2.5.29.31", "2.5.29.37", "2.5.29.15"}, labels)
	assert.True(t, template.ExtraExtensions[3].Critical)
	assert.False(t, template.ExtraExtensions[2].Critical)
}

func TestService_SupportedExtensions(t *testing.T) {
	svc := NewService(extensions.NewRegistry())
	assert.Equal(t, domain.ExtensionNames(), svc.SupportedExtensions())
}

func TestService_BuildTemplate_SelfSignRoundTrip(t *testing.T) {
	svc := NewService(extensions.NewRegistry())

	template, err := svc.BuildTemplate(webserverForm())
	require.NoError(t, err)
	template.NotBefore = time.Now().Add(-time.Minute)
	template.NotAfter = time.Now().Add(time.Hour)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)

	assert.Equal(t, x509.KeyUsageDigitalSignature|x509.KeyUsageKeyAgreement|x509.KeyUsageKeyEncipherment, cert.KeyUsage)
	assert.Equal(t, []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}, cert.ExtKeyUsage)
	assert.Equal(t, []string{"http://ocsp.example.com"}, cert.OCSPServer)
	assert.Equal(t, []string{"http://ca.example.com/ca.der"}, cert.IssuingCertificateURL)
	assert.Equal(t, []string{"http://crl.example.com/ca.crl"}, cert.CRLDistributionPoints)

	var keyUsageCritical bool
	for _, ext := range cert.Extensions {
		if ext.Id.String() == "2.5.29.15" {
			keyUsageCritical = ext.Critical
		}
	}
	assert.True(t, keyUsageCritical)
}

func TestService_BuildTemplate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.FormState)
	}{
		{
			name: "included key usage without values",
			mutate: func(s *domain.FormState) {
				s.Extensions[domain.ExtKeyUsage] = domain.ExtensionField{Include: true}
			},
		},
		{
			name: "invalid subject email",
			mutate: func(s *domain.FormState) {
				s.Subject[domain.SubjectEmail] = "not an address"
			},
		},
		{
			name: "aia without uris",
			mutate: func(s *domain.FormState) {
				s.Extensions[domain.ExtAuthorityInformationAccess] = domain.ExtensionField{Include: true}
			},
		},
	}

	svc := NewService(extensions.NewRegistry())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := webserverForm()
			tt.mutate(&state)

			_, err := svc.BuildTemplate(state)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation), "expected ErrValidation, got %v", err)
		})
	}
}
