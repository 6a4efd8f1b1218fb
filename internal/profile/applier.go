package profile

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"reactor.de/certprofile/internal/domain"
)

// Result is the outcome of applying a profile to a form.
type Result struct {
	State       domain.FormState
	Diagnostics []domain.Diagnostic
}

// Apply computes the form that results from selecting p on top of current.
// A nil profile is the empty selection: it only hides the description.
// current is never modified; the returned state is complete even when some
// extensions could not be applied, which are reported as diagnostics.
func Apply(p *domain.Profile, current domain.FormState) Result {
	state := current.Clone()

	if p == nil {
		state.Profile = ""
		state.Description = ""
		state.DescriptionVisible = false
		return Result{State: state}
	}

	var diags []domain.Diagnostic
	triggered := make(map[domain.FieldID]bool)

	state.Profile = p.Name

	for _, key := range domain.SubjectKeys() {
		if value, ok := p.SubjectDefaults[key]; ok {
			state.Subject[key] = value
		}
	}
	diags = append(diags, unknownSubjectKeys(p)...)

	state.CNInSAN = p.IncludeCNInSAN()
	triggered[domain.FieldSubjectAltName] = true

	for _, name := range domain.ExtensionNames() {
		spec, configured := p.Extension(name)
		if !configured {
			continue
		}

		if spec == nil {
			state.Extensions[name] = clearedField()
			triggered[domain.ExtensionFieldID(name)] = true
			continue
		}

		field, diag := applyExtension(name, spec, state.Extensions[name])
		if diag != nil {
			diag.Profile = p.Name
			diags = append(diags, *diag)
			continue
		}
		state.Extensions[name] = field
		triggered[domain.ExtensionFieldID(name)] = true
	}
	diags = append(diags, unknownExtensions(p)...)

	state.Description = p.Description
	state.DescriptionVisible = true

	propagate(&state, triggered)

	return Result{State: state, Diagnostics: diags}
}

// applyExtension dispatches on the payload variant. The returned field is
// only meaningful when no diagnostic is returned.
func applyExtension(name domain.ExtensionName, spec *domain.ExtensionSpec, field domain.ExtensionField) (domain.ExtensionField, *domain.Diagnostic) {
	expected, _ := name.Kind()

	value := spec.Value
	if value == nil {
		// Present without payload: the empty value of the expected kind.
		value = emptyValue(expected)
	}

	if u, ok := value.(domain.Unrecognized); ok {
		return field, &domain.Diagnostic{
			Kind:          domain.DiagUnrecognizedKind,
			Extension:     name,
			ExtensionKind: u.Declared,
			Message:       fmt.Sprintf("extension %s: unrecognized %q payload %v", name, u.Declared, u.Raw),
		}
	}
	if value.Kind() != expected {
		return field, &domain.Diagnostic{
			Kind:          domain.DiagKindMismatch,
			Extension:     name,
			ExtensionKind: value.Kind(),
			Message:       fmt.Sprintf("extension %s expects kind %s, profile has %s", name, expected, value.Kind()),
		}
	}

	field.Include = true
	field.Critical = spec.Critical

	switch v := value.(type) {
	case domain.Toggle:
		// Presence is all there is.
	case domain.MultiChoice:
		field.Values = uniqueTokens(v)
	case domain.AuthorityInformationAccess:
		field.Issuers = strings.Join(v.Issuers, "\n")
		field.OCSP = strings.Join(v.OCSP, "\n")
	case domain.DistributionPoint:
		field.FullName = strings.Join(v.FullName, "\n")
		field.RelativeName = v.RelativeName
		field.CRLIssuer = strings.Join(v.CRLIssuer, "\n")
		field.Values = uniqueTokens(v.Reasons)
	case domain.GeneralNames:
		field.Names = strings.Join(v, "\n")
	default:
		return field, &domain.Diagnostic{
			Kind:          domain.DiagUnrecognizedKind,
			Extension:     name,
			ExtensionKind: value.Kind(),
			Message:       fmt.Sprintf("extension %s: unsupported payload %T", name, value),
		}
	}

	return field, nil
}

func emptyValue(kind domain.ExtensionKind) domain.ExtensionValue {
	switch kind {
	case domain.KindToggle:
		return domain.Toggle{}
	case domain.KindMultiChoice:
		return domain.MultiChoice{}
	case domain.KindCompoundAIA:
		return domain.AuthorityInformationAccess{}
	case domain.KindCompoundDistributionPoint:
		return domain.DistributionPoint{}
	case domain.KindGeneralNames:
		return domain.GeneralNames{}
	}
	return domain.Unrecognized{Declared: kind}
}

// clearedField is the state of an extension configured as absent.
func clearedField() domain.ExtensionField {
	return domain.ExtensionField{}
}

// uniqueTokens drops duplicates while keeping first-seen order.
func uniqueTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func unknownExtensions(p *domain.Profile) []domain.Diagnostic {
	var names []string
	for name := range p.Extensions {
		if !name.IsKnown() {
			names = append(names, string(name))
		}
	}
	sort.Strings(names)

	diags := make([]domain.Diagnostic, 0, len(names))
	for _, name := range names {
		d := domain.Diagnostic{
			Kind:      domain.DiagUnknownExtension,
			Profile:   p.Name,
			Extension: domain.ExtensionName(name),
			Message:   fmt.Sprintf("profile %s: unknown extension %q ignored", p.Name, name),
		}
		if spec := p.Extensions[domain.ExtensionName(name)]; spec != nil && spec.Value != nil {
			d.ExtensionKind = spec.Value.Kind()
		}
		diags = append(diags, d)
	}
	return diags
}

func unknownSubjectKeys(p *domain.Profile) []domain.Diagnostic {
	var keys []string
	for key := range p.SubjectDefaults {
		if !key.IsValid() {
			keys = append(keys, string(key))
		}
	}
	sort.Strings(keys)

	diags := make([]domain.Diagnostic, 0, len(keys))
	for _, key := range keys {
		diags = append(diags, domain.Diagnostic{
			Kind:    domain.DiagUnknownSubjectField,
			Profile: p.Name,
			Message: fmt.Sprintf("profile %s: unknown subject field %q ignored", p.Name, key),
		})
	}
	return diags
}
