//go:build !integration && !e2e

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactor.de/certprofile/internal/domain"
)

const sampleProfiles = `
webserver:
  description: A certificate for a webserver.
  subject:
    C: AT
    O: Example
  extensions:
    key_usage:
      critical: true
      value: [digitalSignature, keyAgreement, keyEncipherment]
    extended_key_usage:
      value: [serverAuth]
    ocsp_no_check: null
client:
  desc: A certificate for a client.
  cn_in_san: false
  extensions:
    authority_information_access:
      value:
        issuers: ["http://a"]
        ocsp: ["http://b", "http://c"]
    crl_distribution_points:
      value:
        full_name: ["http://crl.example.com/ca.crl"]
        reasons: [key_compromise]
    freshest_crl:
      value:
        relative_name: CN=delta
        crl_issuer: ["dirname:/CN=Example CA/O=Example"]
ocsp:
  extensions:
    ocsp_no_check:
      critical: false
    tls_feature:
      value: OCSPMustStaple
    basic_constraints:
      critical: true
      value: {ca: false}
    key_usage:
      kind: bitmask
      value: 128
`

func TestParseProfiles(t *testing.T) {
	profiles, err := ParseProfiles([]byte(sampleProfiles))
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	// Document order is registration order.
	assert.Equal(t, "webserver", profiles[0].Name)
	assert.Equal(t, "client", profiles[1].Name)
	assert.Equal(t, "ocsp", profiles[2].Name)

	web := profiles[0]
	assert.Equal(t, "A certificate for a webserver.", web.Description)
	assert.Equal(t, "AT", web.SubjectDefaults[domain.SubjectCountry])
	assert.Nil(t, web.CNInSAN)
	assert.True(t, web.IncludeCNInSAN())

	ku, ok := web.Extension(domain.ExtKeyUsage)
	require.True(t, ok)
	require.NotNil(t, ku)
	assert.True(t, ku.Critical)
	assert.Equal(t, domain.MultiChoice{"digitalSignature", "keyAgreement", "keyEncipherment"}, ku.Value)

	noCheck, ok := web.Extension(domain.ExtOCSPNoCheck)
	assert.True(t, ok, "null entry is configured")
	assert.Nil(t, noCheck, "null entry is the absence marker")

	_, ok = web.Extension(domain.ExtTLSFeature)
	assert.False(t, ok)

	client := profiles[1]
	assert.Equal(t, "A certificate for a client.", client.Description)
	assert.False(t, client.IncludeCNInSAN())
	aia, _ := client.Extension(domain.ExtAuthorityInformationAccess)
	require.NotNil(t, aia)
	assert.Equal(t, domain.AuthorityInformationAccess{
		Issuers: []string{"http://a"},
		OCSP:    []string{"http://b", "http://c"},
	}, aia.Value)
	crl, _ := client.Extension(domain.ExtCRLDistributionPoints)
	require.NotNil(t, crl)
	assert.Equal(t, domain.DistributionPoint{
		FullName: []string{"http://crl.example.com/ca.crl"},
		Reasons:  []string{"key_compromise"},
	}, crl.Value)
	delta, _ := client.Extension(domain.ExtFreshestCRL)
	require.NotNil(t, delta)
	assert.Equal(t, domain.DistributionPoint{
		RelativeName: "CN=delta",
		CRLIssuer:    []string{"dirname:/CN=Example CA/O=Example"},
	}, delta.Value)

	ocsp := profiles[2]
	toggle, _ := ocsp.Extension(domain.ExtOCSPNoCheck)
	require.NotNil(t, toggle)
	assert.Equal(t, domain.Toggle{}, toggle.Value)

	tls, _ := ocsp.Extension(domain.ExtTLSFeature)
	require.NotNil(t, tls)
	assert.Equal(t, domain.Unrecognized{Declared: domain.KindMultiChoice, Raw: "OCSPMustStaple"}, tls.Value)

	bc, ok := ocsp.Extension("basic_constraints")
	require.True(t, ok)
	require.NotNil(t, bc)
	assert.Equal(t, domain.ExtensionKind(""), bc.Value.Kind())

	overridden, _ := ocsp.Extension(domain.ExtKeyUsage)
	require.NotNil(t, overridden)
	assert.Equal(t, domain.Unrecognized{Declared: "bitmask", Raw: 128}, overridden.Value)
}

const aliasedProfiles = `
server:
  description: Server
  extensions: &common
    key_usage:
      critical: true
      value: [digitalSignature]
    extended_key_usage:
      value: [serverAuth]
client:
  extensions: *common
ocsp:
  extensions:
    <<: *common
    extended_key_usage:
      value: [OCSPSigning]
    ocsp_no_check: {}
webserver: &web
  description: Webserver
  cn_in_san: false
  extensions:
    <<: [*common]
    issuer_alternative_name:
      value: ["URI:https://ca.example.com"]
legacy:
  <<: *web
  description: Legacy webserver
`

func TestParseProfiles_AliasesAndMergeKeys(t *testing.T) {
	loader := NewYAMLProfileLoader(t.TempDir())
	require.NoError(t, loader.ValidateProfiles([]byte(aliasedProfiles)))

	profiles, err := ParseProfiles([]byte(aliasedProfiles))
	require.NoError(t, err)
	require.Len(t, profiles, 5)

	byName := make(map[string]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
		assert.NotContains(t, p.Extensions, domain.ExtensionName("<<"), "profile %s", p.Name)
	}

	wantKU := &domain.ExtensionSpec{Critical: true, Value: domain.MultiChoice{"digitalSignature"}}

	client := byName["client"]
	require.NotNil(t, client)
	assert.Equal(t, byName["server"].Extensions, client.Extensions)

	ocsp := byName["ocsp"]
	require.NotNil(t, ocsp)
	assert.Len(t, ocsp.Extensions, 3)
	assert.Equal(t, wantKU, ocsp.Extensions[domain.ExtKeyUsage])
	assert.Equal(t, domain.MultiChoice{"OCSPSigning"}, ocsp.Extensions[domain.ExtExtendedKeyUsage].Value, "explicit key wins over merged one")
	assert.Equal(t, domain.Toggle{}, ocsp.Extensions[domain.ExtOCSPNoCheck].Value)

	web := byName["webserver"]
	require.NotNil(t, web)
	assert.Equal(t, wantKU, web.Extensions[domain.ExtKeyUsage])
	assert.Equal(t, domain.GeneralNames{"URI:https://ca.example.com"}, web.Extensions[domain.ExtIssuerAlternativeName].Value)

	legacy := byName["legacy"]
	require.NotNil(t, legacy)
	assert.Equal(t, "Legacy webserver", legacy.Description)
	assert.False(t, legacy.IncludeCNInSAN())
	assert.Equal(t, web.Extensions, legacy.Extensions)
}

func TestParseProfiles_Empty(t *testing.T) {
	for _, input := range []string{"", "# nothing\n", "~\n"} {
		profiles, err := ParseProfiles([]byte(input))
		require.NoError(t, err)
		assert.Empty(t, profiles)
	}
}

func TestParseProfiles_NotAMapping(t *testing.T) {
	_, err := ParseProfiles([]byte("- a\n- b\n"))
	require.Error(t, err)
}

func TestValidateProfiles(t *testing.T) {
	loader := NewYAMLProfileLoader(t.TempDir())

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "sample", data: sampleProfiles},
		{name: "empty", data: ""},
		{name: "unknown profile field", data: "p:\n  validity: 3d\n", wantErr: true},
		{name: "unknown subject field", data: "p:\n  subject:\n    serialNumber: '1'\n", wantErr: true},
		{name: "critical not bool", data: "p:\n  extensions:\n    key_usage:\n      critical: sure\n", wantErr: true},
		{name: "extension not object", data: "p:\n  extensions:\n    key_usage: [digitalSignature]\n", wantErr: true},
		{name: "bad profile name", data: "'bad name':\n  description: x\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.ValidateProfiles([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	loader := NewYAMLProfileLoader(dir)

	_, err := loader.LoadProfiles()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte(sampleProfiles), 0644))
	profiles, err := loader.LoadProfiles()
	require.NoError(t, err)
	assert.Len(t, profiles, 3)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte("p:\n  bogus: 1\n"), 0644))
	_, err = loader.LoadProfiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error")
}
