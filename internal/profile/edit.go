package profile

import (
	"fmt"
	"strconv"
	"strings"

	"reactor.de/certprofile/internal/domain"
)

// FieldEdit is a single user change to a form field.
//
// Path is one of:
//
//	subject.<C|ST|L|O|OU|CN|emailAddress>
//	cn_in_san
//	subject_alt_name               (comma separated)
//	<extension>.include|critical   (boolean)
//	<extension>.values             (comma separated tokens)
//	<extension>.issuers|ocsp       (authority_information_access only)
//	<extension>.full_name          (distribution point extensions only)
//	<extension>.relative_name      (distribution point extensions only)
//	<extension>.crl_issuer         (distribution point extensions only)
//	<extension>.names              (general names extensions only)
type FieldEdit struct {
	Path  string
	Value string
}

// Edit applies a single field change to a copy of state and recomputes the
// fields that depend on it.
func Edit(state domain.FormState, edit FieldEdit) (domain.FormState, error) {
	out := state.Clone()

	head, sub, _ := strings.Cut(edit.Path, ".")
	switch {
	case head == "subject" && sub != "":
		key := domain.SubjectKey(sub)
		if !key.IsValid() {
			return state, fmt.Errorf("%w: %s", domain.ErrUnknownField, edit.Path)
		}
		out.Subject[key] = edit.Value
		if key == domain.SubjectCommonName {
			propagate(&out, map[domain.FieldID]bool{domain.FieldSubjectAltName: true})
		}
		return out, nil

	case edit.Path == "cn_in_san":
		v, err := parseBool(edit)
		if err != nil {
			return state, err
		}
		out.CNInSAN = v
		propagate(&out, map[domain.FieldID]bool{domain.FieldSubjectAltName: true})
		return out, nil

	case edit.Path == string(domain.FieldSubjectAltName):
		out.SubjectAltNames = splitList(edit.Value)
		propagate(&out, map[domain.FieldID]bool{domain.FieldSubjectAltName: true})
		return out, nil
	}

	name := domain.ExtensionName(head)
	kind, ok := name.Kind()
	if !ok || sub == "" {
		return state, fmt.Errorf("%w: %s", domain.ErrUnknownField, edit.Path)
	}

	field := out.Extensions[name]
	switch {
	case sub == "include":
		v, err := parseBool(edit)
		if err != nil {
			return state, err
		}
		field.Include = v
	case sub == "critical":
		v, err := parseBool(edit)
		if err != nil {
			return state, err
		}
		field.Critical = v
	case sub == "values" && (kind == domain.KindMultiChoice || kind == domain.KindCompoundDistributionPoint):
		field.Values = uniqueTokens(splitList(edit.Value))
	case sub == "issuers" && kind == domain.KindCompoundAIA:
		field.Issuers = strings.Join(splitList(edit.Value), "\n")
	case sub == "ocsp" && kind == domain.KindCompoundAIA:
		field.OCSP = strings.Join(splitList(edit.Value), "\n")
	case sub == "full_name" && kind == domain.KindCompoundDistributionPoint:
		field.FullName = strings.Join(splitList(edit.Value), "\n")
	case sub == "relative_name" && kind == domain.KindCompoundDistributionPoint:
		field.RelativeName = strings.TrimSpace(edit.Value)
	case sub == "crl_issuer" && kind == domain.KindCompoundDistributionPoint:
		field.CRLIssuer = strings.Join(splitList(edit.Value), "\n")
	case sub == "names" && kind == domain.KindGeneralNames:
		field.Names = strings.Join(splitList(edit.Value), "\n")
	default:
		return state, fmt.Errorf("%w: %s", domain.ErrUnknownField, edit.Path)
	}
	out.Extensions[name] = field

	propagate(&out, map[domain.FieldID]bool{domain.ExtensionFieldID(name): true})
	return out, nil
}

func parseBool(edit FieldEdit) (bool, error) {
	v, err := strconv.ParseBool(edit.Value)
	if err != nil {
		return false, fmt.Errorf("%w: %s expects true or false, got %q", domain.ErrValidation, edit.Path, edit.Value)
	}
	return v, nil
}

// splitList accepts comma or newline separated entries and drops blanks.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
