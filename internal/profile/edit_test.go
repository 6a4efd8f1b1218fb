//go:build !integration && !e2e

package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactor.de/certprofile/internal/domain"
)

func TestEdit(t *testing.T) {
	tests := []struct {
		name  string
		edits []FieldEdit
		check func(t *testing.T, s domain.FormState)
	}{
		{
			name:  "common name feeds san",
			edits: []FieldEdit{{Path: "subject.CN", Value: "host.example.com"}},
			check: func(t *testing.T, s domain.FormState) {
				assert.Equal(t, "host.example.com", s.Subject[domain.SubjectCommonName])
				assert.Equal(t, []string{"host.example.com"}, s.EffectiveSANs)
			},
		},
		{
			name: "cn in san off",
			edits: []FieldEdit{
				{Path: "subject.CN", Value: "host.example.com"},
				{Path: "subject_alt_name", Value: "a.example.com, b.example.com"},
				{Path: "cn_in_san", Value: "false"},
			},
			check: func(t *testing.T, s domain.FormState) {
				assert.Equal(t, []string{"a.example.com", "b.example.com"}, s.EffectiveSANs)
			},
		},
		{
			name:  "include toggle enables criticality",
			edits: []FieldEdit{{Path: "ocsp_no_check.include", Value: "true"}},
			check: func(t *testing.T, s domain.FormState) {
				f := s.Extensions[domain.ExtOCSPNoCheck]
				assert.True(t, f.Include)
				assert.True(t, f.ValueEnabled)
				assert.True(t, f.CriticalEnabled)
			},
		},
		{
			name: "values deduplicated",
			edits: []FieldEdit{
				{Path: "key_usage.include", Value: "true"},
				{Path: "key_usage.values", Value: "digitalSignature,keyEncipherment,digitalSignature"},
				{Path: "key_usage.critical", Value: "true"},
			},
			check: func(t *testing.T, s domain.FormState) {
				f := s.Extensions[domain.ExtKeyUsage]
				assert.Equal(t, []string{"digitalSignature", "keyEncipherment"}, f.Values)
				assert.True(t, f.Critical)
				assert.True(t, f.CriticalEnabled)
			},
		},
		{
			name: "aia lists",
			edits: []FieldEdit{
				{Path: "authority_information_access.include", Value: "true"},
				{Path: "authority_information_access.ocsp", Value: "http://b,http://c"},
			},
			check: func(t *testing.T, s domain.FormState) {
				f := s.Extensions[domain.ExtAuthorityInformationAccess]
				assert.Equal(t, "http://b\nhttp://c", f.OCSP)
				assert.True(t, f.CriticalEnabled)
			},
		},
		{
			name: "distribution point full name",
			edits: []FieldEdit{
				{Path: "freshest_crl.include", Value: "true"},
				{Path: "freshest_crl.full_name", Value: "http://crl/delta.crl"},
			},
			check: func(t *testing.T, s domain.FormState) {
				assert.Equal(t, "http://crl/delta.crl", s.Extensions[domain.ExtFreshestCRL].FullName)
			},
		},
		{
			name: "distribution point relative name and issuer",
			edits: []FieldEdit{
				{Path: "crl_distribution_points.include", Value: "true"},
				{Path: "crl_distribution_points.relative_name", Value: " CN=crl1+O=Example "},
				{Path: "crl_distribution_points.crl_issuer", Value: "URI:http://ca, dirname:/CN=Example CA"},
			},
			check: func(t *testing.T, s domain.FormState) {
				f := s.Extensions[domain.ExtCRLDistributionPoints]
				assert.Equal(t, "CN=crl1+O=Example", f.RelativeName)
				assert.Equal(t, "URI:http://ca\ndirname:/CN=Example CA", f.CRLIssuer)
				assert.True(t, f.CriticalEnabled)
			},
		},
		{
			name: "issuer alternative names",
			edits: []FieldEdit{
				{Path: "issuer_alternative_name.include", Value: "true"},
				{Path: "issuer_alternative_name.names", Value: "URI:https://ca.example.com\nemail:ca@example.com"},
			},
			check: func(t *testing.T, s domain.FormState) {
				f := s.Extensions[domain.ExtIssuerAlternativeName]
				assert.Equal(t, "URI:https://ca.example.com\nemail:ca@example.com", f.Names)
				assert.True(t, f.CriticalEnabled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.NewFormState()
			for _, e := range tt.edits {
				var err error
				s, err = Edit(s, e)
				require.NoError(t, err, "edit %s", e.Path)
			}
			tt.check(t, s)
		})
	}
}

func TestEdit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		edit    FieldEdit
		wantErr error
	}{
		{name: "unknown subject key", edit: FieldEdit{Path: "subject.serialNumber", Value: "1"}, wantErr: domain.ErrUnknownField},
		{name: "unknown extension", edit: FieldEdit{Path: "basic_constraints.include", Value: "true"}, wantErr: domain.ErrUnknownField},
		{name: "missing sub-field", edit: FieldEdit{Path: "key_usage", Value: "x"}, wantErr: domain.ErrUnknownField},
		{name: "sub-field of other kind", edit: FieldEdit{Path: "key_usage.ocsp", Value: "http://x"}, wantErr: domain.ErrUnknownField},
		{name: "values on toggle", edit: FieldEdit{Path: "ocsp_no_check.values", Value: "x"}, wantErr: domain.ErrUnknownField},
		{name: "names on distribution point", edit: FieldEdit{Path: "freshest_crl.names", Value: "DNS:x"}, wantErr: domain.ErrUnknownField},
		{name: "relative name on general names", edit: FieldEdit{Path: "issuer_alternative_name.relative_name", Value: "CN=x"}, wantErr: domain.ErrUnknownField},
		{name: "bad bool", edit: FieldEdit{Path: "cn_in_san", Value: "maybe"}, wantErr: domain.ErrValidation},
		{name: "bad include", edit: FieldEdit{Path: "tls_feature.include", Value: "yes please"}, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := domain.NewFormState()
			got, err := Edit(start, tt.edit)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, got.Extensions)
		})
	}
}
