package profile

import (
	"slices"

	"reactor.de/certprofile/internal/domain"
)

// cascadeOrder is the fixed order in which dependent fields are recomputed.
func cascadeOrder() []domain.FieldID {
	names := domain.ExtensionNames()
	order := make([]domain.FieldID, 0, len(names)+1)
	for _, name := range names {
		order = append(order, domain.ExtensionFieldID(name))
	}
	return append(order, domain.FieldSubjectAltName)
}

// Propagate recomputes the derived state of the given fields on a copy of
// state. Each field is recomputed at most once, in cascade order, whatever
// order the fields are passed in. Unknown field IDs are ignored.
func Propagate(state domain.FormState, fields ...domain.FieldID) domain.FormState {
	out := state.Clone()
	triggered := make(map[domain.FieldID]bool, len(fields))
	for _, f := range fields {
		triggered[f] = true
	}
	propagate(&out, triggered)
	return out
}

// PropagateAll recomputes every derived field.
func PropagateAll(state domain.FormState) domain.FormState {
	return Propagate(state, cascadeOrder()...)
}

func propagate(state *domain.FormState, triggered map[domain.FieldID]bool) {
	for _, id := range cascadeOrder() {
		if triggered[id] {
			recompute(state, id)
		}
	}
}

// recompute derives a field's state purely from its inputs, so running it
// repeatedly gives the same result as running it once.
func recompute(state *domain.FormState, id domain.FieldID) {
	if id == domain.FieldSubjectAltName {
		recomputeSubjectAltName(state)
		return
	}

	name := domain.ExtensionName(id)
	kind, ok := name.Kind()
	if !ok {
		return
	}

	field, exists := state.Extensions[name]
	if !exists {
		// An untouched field has nothing to enable.
		return
	}
	field.ValueEnabled = field.Include
	field.CriticalEnabled = field.Include && field.HasValue(kind)
	state.Extensions[name] = field
}

func recomputeSubjectAltName(state *domain.FormState) {
	sans := slices.Clone(state.SubjectAltNames)
	cn := state.Subject[domain.SubjectCommonName]
	if state.CNInSAN && cn != "" && !slices.Contains(sans, cn) {
		sans = append(sans, cn)
	}
	if len(sans) == 0 {
		sans = nil
	}
	state.EffectiveSANs = sans
}
