package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"reactor.de/certprofile/internal/domain"
	"reactor.de/certprofile/internal/localedate"
)

// FormatTimestamp renders t in the user's locale, or "-" for the zero time.
func FormatTimestamp(t time.Time, layout localedate.Layout) string {
	if t.IsZero() {
		return "-"
	}
	return localedate.FormatDateTime(localedate.UserLocale(), t, layout)
}

// PrintForm displays a request form with its derived state.
func PrintForm(id string, state domain.FormState) {
	fmt.Println()
	fmt.Printf("%s %s\n", green(bold("FORM")), id)
	profile := state.Profile
	if profile == "" {
		profile = "(none)"
	}
	fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", "Profile")), profile)
	if state.DescriptionVisible && state.Description != "" {
		fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", "Description")), state.Description)
	}
	fmt.Printf("   %s %d\n", cyan(fmt.Sprintf("%-13s", "Revision")), state.Revision)
	fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", "Updated")), FormatTimestamp(state.UpdatedAt, localedate.Long))

	fmt.Printf("\n%s\n", green(bold("SUBJECT")))
	for _, key := range domain.SubjectKeys() {
		if value := state.Subject[key]; value != "" {
			fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", key)), value)
		}
	}

	fmt.Printf("\n%s\n", green(bold("SUBJECT NAMES")))
	fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", "CN in SAN")), yesNo(state.CNInSAN))
	printLabeled("SAN", state.EffectiveSANs)

	if len(state.Extensions) == 0 {
		return
	}

	fmt.Printf("\n%s\n", green(bold("EXTENSIONS")))
	for _, name := range domain.ExtensionNames() {
		field, ok := state.Extensions[name]
		if !ok {
			continue
		}
		printExtensionField(name, field)
	}
	fmt.Printf("\n   %s\n", red("(! = critical, ○ = disabled)"))
}

func printExtensionField(name domain.ExtensionName, field domain.ExtensionField) {
	symbol := PendingSymbol()
	if field.Include {
		symbol = SuccessSymbol()
	}
	displayName := cyan(string(name))
	if field.Include && field.Critical {
		displayName = displayName + red(" !")
	}
	fmt.Printf("   %s %s\n", symbol, displayName)

	var rows [][2]string
	if len(field.Values) > 0 {
		rows = append(rows, [2]string{"values", strings.Join(field.Values, ", ")})
	}
	if field.Issuers != "" {
		rows = append(rows, [2]string{"issuers", field.Issuers})
	}
	if field.OCSP != "" {
		rows = append(rows, [2]string{"ocsp", field.OCSP})
	}
	if field.FullName != "" {
		rows = append(rows, [2]string{"full_name", field.FullName})
	}
	if field.RelativeName != "" {
		rows = append(rows, [2]string{"relative_name", field.RelativeName})
	}
	if field.CRLIssuer != "" {
		rows = append(rows, [2]string{"crl_issuer", field.CRLIssuer})
	}
	if field.Names != "" {
		rows = append(rows, [2]string{"names", field.Names})
	}
	rows = append(rows, [2]string{"editable", fmt.Sprintf("value %s, critical %s", yesNo(field.ValueEnabled), yesNo(field.CriticalEnabled))})

	for _, row := range rows {
		if strings.Contains(row[1], "\n") {
			fmt.Printf("     %s\n%s\n", cyan(row[0]+":"), indentText(row[1], "       "))
		} else {
			fmt.Printf("     %s %s\n", cyan(row[0]+":"), row[1])
		}
	}
}

// PrintDiagnostics reports non-fatal profile anomalies.
func PrintDiagnostics(diags []domain.Diagnostic) {
	for _, d := range diags {
		Warning("%s", d.Message)
	}
}

// PrintProfile displays the configuration of a single profile.
func PrintProfile(p *domain.Profile, isDefault bool) {
	fmt.Println()
	header := p.Name
	if isDefault {
		header += " (default)"
	}
	fmt.Printf("%s %s\n", green(bold("PROFILE")), header)
	if p.Description != "" {
		fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", "Description")), p.Description)
	}
	fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", "CN in SAN")), yesNo(p.IncludeCNInSAN()))

	if len(p.SubjectDefaults) > 0 {
		fmt.Printf("\n%s\n", green(bold("SUBJECT DEFAULTS")))
		for _, key := range domain.SubjectKeys() {
			if value, ok := p.SubjectDefaults[key]; ok {
				fmt.Printf("   %s %s\n", cyan(fmt.Sprintf("%-13s", key)), value)
			}
		}
	}

	if len(p.Extensions) == 0 {
		return
	}

	fmt.Printf("\n%s\n", green(bold("EXTENSIONS")))
	for _, name := range profileExtensionOrder(p) {
		spec := p.Extensions[name]
		displayName := cyan(string(name))
		if !name.IsKnown() {
			displayName = yellow(string(name)) + " " + WarningSymbol()
		}
		if spec == nil {
			fmt.Printf("   %s %s\n", displayName, "(absent)")
			continue
		}
		if spec.Critical {
			displayName = displayName + red(" !")
		}
		fmt.Printf("   %s\n", displayName)
		if spec.Value == nil {
			continue
		}
		fmt.Printf("     %s %s\n", cyan("kind:"), spec.Value.Kind())
		if text := FormatExtensionValue(spec.Value); text != "" {
			if strings.Contains(text, "\n") {
				fmt.Printf("     %s\n%s\n", cyan("value:"), indentText(text, "       "))
			} else {
				fmt.Printf("     %s %s\n", cyan("value:"), text)
			}
		}
	}
}

// profileExtensionOrder lists known names in processing order followed by
// unknown names sorted alphabetically.
func profileExtensionOrder(p *domain.Profile) []domain.ExtensionName {
	var names []domain.ExtensionName
	for _, name := range domain.ExtensionNames() {
		if _, ok := p.Extensions[name]; ok {
			names = append(names, name)
		}
	}
	var unknown []string
	for name := range p.Extensions {
		if !name.IsKnown() {
			unknown = append(unknown, string(name))
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		names = append(names, domain.ExtensionName(name))
	}
	return names
}

// FormatExtensionValue renders a profile payload for display.
func FormatExtensionValue(value domain.ExtensionValue) string {
	switch v := value.(type) {
	case domain.Toggle:
		return "present"
	case domain.MultiChoice:
		return strings.Join(v, ", ")
	case domain.AuthorityInformationAccess:
		var lines []string
		for _, uri := range v.Issuers {
			lines = append(lines, "CA Issuers: "+uri)
		}
		for _, uri := range v.OCSP {
			lines = append(lines, "OCSP: "+uri)
		}
		return strings.Join(lines, "\n")
	case domain.DistributionPoint:
		lines := append([]string(nil), v.FullName...)
		if v.RelativeName != "" {
			lines = append(lines, "Relative name: "+v.RelativeName)
		}
		for _, name := range v.CRLIssuer {
			lines = append(lines, "CRL issuer: "+name)
		}
		if len(v.Reasons) > 0 {
			lines = append(lines, "Reasons: "+strings.Join(v.Reasons, ", "))
		}
		return strings.Join(lines, "\n")
	case domain.GeneralNames:
		return strings.Join(v, "\n")
	case domain.Unrecognized:
		return fmt.Sprintf("unrecognized: %v", v.Raw)
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
