// Package testhelper provides mocks and fixtures for application tests.
package testhelper

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"reactor.de/certprofile/internal/app"
	"reactor.de/certprofile/internal/domain"
	"reactor.de/certprofile/internal/infra/crypto"
	"reactor.de/certprofile/internal/infra/crypto/extensions"
	"reactor.de/certprofile/internal/infra/logging"
)

// FixedTime is the time reported by FixedClock.
var FixedTime = time.Date(2025, 8, 2, 15, 30, 0, 0, time.UTC)

// --- Mocks for Dependencies ---

type MockProfileSource struct {
	Profiles    []*domain.Profile
	Err         error
	ValidateErr error
}

func (m *MockProfileSource) LoadProfiles() ([]*domain.Profile, error) { return m.Profiles, m.Err }
func (m *MockProfileSource) ValidateProfiles(data []byte) error       { return m.ValidateErr }

// MemoryFormStore is an in-memory domain.FormStore with the same revision
// semantics as the file store.
type MemoryFormStore struct {
	Forms   map[string]domain.FormState
	SaveErr error
}

func NewMemoryFormStore() *MemoryFormStore {
	return &MemoryFormStore{Forms: make(map[string]domain.FormState)}
}

func (m *MemoryFormStore) FormExists(id string) (bool, error) {
	_, ok := m.Forms[id]
	return ok, nil
}

func (m *MemoryFormStore) LoadForm(id string) (domain.FormState, error) {
	state, ok := m.Forms[id]
	if !ok {
		return domain.FormState{}, fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
	}
	return state.Clone(), nil
}

func (m *MemoryFormStore) SaveForm(id string, state domain.FormState) (int, error) {
	if m.SaveErr != nil {
		return 0, m.SaveErr
	}
	state = state.Clone()
	state.Revision++
	m.Forms[id] = state
	return state.Revision, nil
}

func (m *MemoryFormStore) ListFormIDs() ([]string, error) {
	ids := make([]string, 0, len(m.Forms))
	for id := range m.Forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryFormStore) DeleteForm(id string) error {
	if _, ok := m.Forms[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
	}
	delete(m.Forms, id)
	return nil
}

type MockUserInteraction struct {
	ConfirmResponse bool
	ConfirmErr      error
	Prompts         []string
}

func (m *MockUserInteraction) Confirm(prompt string) (bool, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.ConfirmResponse, m.ConfirmErr
}

type FixedClock struct{}

func (FixedClock) Now() time.Time { return FixedTime }

// Mocks gives tests access to the dependencies of a test application.
type Mocks struct {
	Profiles *MockProfileSource
	Settings *domain.Settings
	Store    *MemoryFormStore
	Prompt   *MockUserInteraction
	Logs     *observer.ObservedLogs
}

// PartialTemplateBuilder wraps a template builder but only reports the
// listed extensions as supported.
type PartialTemplateBuilder struct {
	domain.TemplateBuilder
	Supported []domain.ExtensionName
}

func (b *PartialTemplateBuilder) SupportedExtensions() []domain.ExtensionName { return b.Supported }

// SetupTestApplication initializes the Application with mocks for unit testing.
// Template building uses the real crypto service.
func SetupTestApplication(t *testing.T) (*app.Application, *Mocks) {
	t.Helper()
	return SetupTestApplicationWithTemplates(t, crypto.NewService(extensions.NewRegistry()))
}

// SetupTestApplicationWithTemplates is SetupTestApplication with a custom
// template builder.
func SetupTestApplicationWithTemplates(t *testing.T, templates domain.TemplateBuilder) (*app.Application, *Mocks) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	mocks := &Mocks{
		Profiles: &MockProfileSource{Profiles: TestProfiles()},
		Settings: &domain.Settings{DefaultProfile: "webserver", LogLevel: "info"},
		Store:    NewMemoryFormStore(),
		Prompt:   &MockUserInteraction{},
		Logs:     logs,
	}

	application := app.NewApplication(
		"/test/root",
		logging.New(zap.New(core)),
		mocks.Profiles,
		mocks.Settings,
		mocks.Store,
		templates,
		mocks.Prompt,
		FixedClock{},
	)
	return application, mocks
}

// WarningMessages returns the messages logged at warning level.
func (m *Mocks) WarningMessages() []string {
	var out []string
	for _, entry := range m.Logs.FilterLevelExact(zapcore.WarnLevel).All() {
		out = append(out, entry.Message)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

// TestProfiles returns a small profile set modeled on common issuing profiles.
func TestProfiles() []*domain.Profile {
	return []*domain.Profile{
		{
			Name:        "webserver",
			Description: "A certificate for a webserver.",
			Extensions: map[domain.ExtensionName]*domain.ExtensionSpec{
				domain.ExtKeyUsage: {
					Critical: true,
					Value:    domain.MultiChoice{"digitalSignature", "keyAgreement", "keyEncipherment"},
				},
				domain.ExtExtendedKeyUsage: {
					Value: domain.MultiChoice{"serverAuth"},
				},
				domain.ExtAuthorityInformationAccess: {
					Value: domain.AuthorityInformationAccess{
						Issuers: []string{"http://ca.example.com/ca.der"},
						OCSP:    []string{"http://ocsp.example.com"},
					},
				},
				domain.ExtOCSPNoCheck: nil,
			},
		},
		{
			Name:        "ocsp",
			Description: "A certificate for an OCSP responder.",
			CNInSAN:     boolPtr(false),
			Extensions: map[domain.ExtensionName]*domain.ExtensionSpec{
				domain.ExtKeyUsage: {
					Critical: true,
					Value:    domain.MultiChoice{"nonRepudiation", "digitalSignature", "keyEncipherment"},
				},
				domain.ExtExtendedKeyUsage: {
					Value: domain.MultiChoice{"OCSPSigning"},
				},
				domain.ExtOCSPNoCheck: {
					Value: domain.Toggle{},
				},
				"x_custom": {
					Value: domain.Toggle{},
				},
			},
		},
		{
			Name: "broken",
			Extensions: map[domain.ExtensionName]*domain.ExtensionSpec{
				domain.ExtTLSFeature: {
					Value: domain.Unrecognized{Declared: "bitmask", Raw: 5},
				},
			},
		},
	}
}

// ErrBoom is a generic failure injected by tests.
var ErrBoom = errors.New("boom")
