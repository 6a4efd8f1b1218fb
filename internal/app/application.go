package app

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"

	"reactor.de/certprofile/internal/domain"
	"reactor.de/certprofile/internal/profile"
)

// Application orchestrates the application's use cases.
type Application struct {
	rootPath        string
	logger          domain.Logger
	profileSource   domain.ProfileSource
	settings        *domain.Settings
	store           domain.FormStore
	templates       domain.TemplateBuilder
	userInteraction domain.UserInteraction
	clock           domain.Clock
}

// NewApplication creates a new Application instance.
func NewApplication(
	rootPath string,
	logger domain.Logger,
	profileSource domain.ProfileSource,
	settings *domain.Settings,
	store domain.FormStore,
	templates domain.TemplateBuilder,
	userInteraction domain.UserInteraction,
	clock domain.Clock,
) *Application {
	if settings == nil {
		settings = &domain.Settings{}
	}
	return &Application{
		rootPath:        rootPath,
		logger:          logger,
		profileSource:   profileSource,
		settings:        settings,
		store:           store,
		templates:       templates,
		userInteraction: userInteraction,
		clock:           clock,
	}
}

// FormResult is the outcome of a use case that changed a stored form.
type FormResult struct {
	ID          string
	State       domain.FormState
	Diagnostics []domain.Diagnostic
}

// FormInfo summarizes a stored form for listings.
type FormInfo struct {
	ID       string
	Profile  string
	Subject  string
	Revision int
	State    domain.FormState
}

// RootPath returns the directory holding config and store.
func (a *Application) RootPath() string {
	return a.rootPath
}

// registry loads a fresh profile snapshot.
func (a *Application) registry() (*profile.Registry, error) {
	profiles, err := a.profileSource.LoadProfiles()
	if err != nil {
		return nil, err
	}
	return profile.NewRegistry(profiles)
}

// ValidateConfig checks profiles.yaml and settings for consistency, and that
// every extension in the vocabulary can be encoded. Every profile is applied to an empty form so that tolerated anomalies surface as
// diagnostics before a user selects the profile.
func (a *Application) ValidateConfig(ctx context.Context) ([]domain.Diagnostic, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}

	if name := a.settings.DefaultProfile; name != "" {
		if _, err := reg.Get(name); err != nil {
			return nil, fmt.Errorf("%w: default_profile: %w", domain.ErrValidation, err)
		}
	}

	supported := make(map[domain.ExtensionName]bool)
	for _, name := range a.templates.SupportedExtensions() {
		supported[name] = true
	}
	for _, name := range domain.ExtensionNames() {
		if !supported[name] {
			return nil, fmt.Errorf("%w: no template builder for extension %s", domain.ErrValidation, name)
		}
	}

	var diagnostics []domain.Diagnostic
	for _, name := range reg.All() {
		p, _ := reg.Get(name)
		result := profile.Apply(p, domain.NewFormState())
		diagnostics = append(diagnostics, result.Diagnostics...)
	}
	return diagnostics, nil
}

// ListProfiles returns all profiles in registration order.
func (a *Application) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.Profile, 0, reg.Len())
	for _, name := range reg.All() {
		p, _ := reg.Get(name)
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// ShowProfile returns a single profile by name.
func (a *Application) ShowProfile(ctx context.Context, name string) (*domain.Profile, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	return reg.Get(name)
}

// DefaultProfile returns the profile name new forms start with.
func (a *Application) DefaultProfile() string {
	return a.settings.DefaultProfile
}

// NewForm creates a form session. An empty profileName falls back to the
// configured default profile; if that is empty too, the form starts
// without a profile.
func (a *Application) NewForm(ctx context.Context, id, profileName string, force bool) (*FormResult, error) {
	exists, err := a.store.FormExists(id)
	if err != nil {
		return nil, err
	}
	if exists && !force {
		return nil, fmt.Errorf("%w: %s. Use --force to overwrite", domain.ErrFormExists, id)
	}

	if profileName == "" {
		profileName = a.settings.DefaultProfile
	}

	state := domain.NewFormState()
	result, err := a.resolve(state, profileName)
	if err != nil {
		return nil, err
	}

	a.logger.Log(fmt.Sprintf("Created form '%s' with profile '%s'", id, profileName))
	return a.save(id, result)
}

// SelectProfile applies the named profile to a stored form. An empty name
// deselects the profile. An unknown name leaves the stored form untouched.
func (a *Application) SelectProfile(ctx context.Context, id, name string) (*FormResult, error) {
	state, err := a.load(id)
	if err != nil {
		return nil, err
	}

	result, err := a.resolve(state, name)
	if err != nil {
		return nil, err
	}

	if name == "" {
		a.logger.Log(fmt.Sprintf("Cleared profile selection of form '%s'", id))
	} else {
		a.logger.Log(fmt.Sprintf("Applied profile '%s' to form '%s'", name, id))
	}
	return a.save(id, result)
}

// EditField changes one form field and recomputes its dependents.
func (a *Application) EditField(ctx context.Context, id, path, value string) (*FormResult, error) {
	state, err := a.load(id)
	if err != nil {
		return nil, err
	}

	edited, err := profile.Edit(state, profile.FieldEdit{Path: path, Value: value})
	if err != nil {
		return nil, err
	}

	a.logger.Log(fmt.Sprintf("Set '%s' on form '%s'", path, id))
	return a.save(id, profile.Result{State: edited})
}

// ShowForm returns the stored state of a form.
func (a *Application) ShowForm(ctx context.Context, id string) (domain.FormState, error) {
	return a.load(id)
}

// BuildTemplate turns a stored form into an unsigned certificate template.
func (a *Application) BuildTemplate(ctx context.Context, id string) (*x509.Certificate, error) {
	state, err := a.load(id)
	if err != nil {
		return nil, err
	}

	template, err := a.templates.BuildTemplate(state)
	if err != nil {
		return nil, fmt.Errorf("failed to build template for form '%s': %w", id, err)
	}
	return template, nil
}

// ListForms returns a summary of every stored form, sorted by ID.
func (a *Application) ListForms(ctx context.Context) ([]*FormInfo, error) {
	ids, err := a.store.ListFormIDs()
	if err != nil {
		return nil, err
	}

	var infos []*FormInfo
	for _, id := range ids {
		state, err := a.load(id)
		if err != nil {
			a.logger.Error("Failed to load form '%s': %v", id, err)
			continue
		}
		infos = append(infos, &FormInfo{
			ID:       id,
			Profile:  state.Profile,
			Subject:  state.Subject[domain.SubjectCommonName],
			Revision: state.Revision,
			State:    state,
		})
	}
	return infos, nil
}

// DeleteForm removes a form after confirmation unless force is set.
func (a *Application) DeleteForm(ctx context.Context, id string, force bool) error {
	exists, err := a.store.FormExists(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
	}

	if !force {
		confirmed, err := a.userInteraction.Confirm(fmt.Sprintf("Delete form '%s'? [y/N]: ", id))
		if err != nil {
			return err
		}
		if !confirmed {
			return domain.ErrActionAborted
		}
	}

	if err := a.store.DeleteForm(id); err != nil {
		return err
	}
	a.logger.Log(fmt.Sprintf("Deleted form '%s'", id))
	return nil
}

// resolve looks up name and applies it to state. Diagnostics are logged as
// warnings and returned with the result.
func (a *Application) resolve(state domain.FormState, name string) (profile.Result, error) {
	var p *domain.Profile
	if name != "" {
		reg, err := a.registry()
		if err != nil {
			return profile.Result{}, err
		}
		p, err = reg.Get(name)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				a.logger.Error("Profile '%s' requested but not registered", notFound.Name)
			}
			return profile.Result{}, err
		}
	}

	result := profile.Apply(p, state)
	for _, d := range result.Diagnostics {
		a.logger.Warning("Profile '%s': %s", name, d.String())
	}
	return result, nil
}

// load reads a stored form and recomputes its derived fields, which may be
// stale when the form file was edited by hand.
func (a *Application) load(id string) (domain.FormState, error) {
	state, err := a.store.LoadForm(id)
	if err != nil {
		return domain.FormState{}, err
	}
	return profile.PropagateAll(state), nil
}

func (a *Application) save(id string, result profile.Result) (*FormResult, error) {
	state := result.State
	state.UpdatedAt = a.clock.Now()

	rev, err := a.store.SaveForm(id, state)
	if err != nil {
		return nil, fmt.Errorf("failed to save form '%s': %w", id, err)
	}
	state.Revision = rev

	return &FormResult{ID: id, State: state, Diagnostics: result.Diagnostics}, nil
}
