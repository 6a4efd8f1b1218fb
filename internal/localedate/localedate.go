// Package localedate formats timestamps for the user's locale.
package localedate

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Layout selects how much detail a formatted timestamp carries.
type Layout int

const (
	Short Layout = iota // 02.08.2025 15:30
	Long                // Saturday, 2. August 2025 15:30:45 UTC
)

type layouts struct {
	short string
	long  string
}

// supported lists the locales with dedicated layouts. The first entry is
// the fallback for unmatched locales.
var supported = []struct {
	tag     language.Tag
	layouts layouts
}{
	{language.BritishEnglish, layouts{"02/01/2006, 15:04", "Monday, 2 January 2006, 15:04:05 MST"}},
	{language.AmericanEnglish, layouts{"1/2/2006, 3:04 PM", "Monday, January 2, 2006, 3:04:05 PM MST"}},
	{language.MustParse("de-DE"), layouts{"02.01.2006 15:04", "Monday, 2. January 2006 15:04:05 MST"}},
	{language.MustParse("fr-FR"), layouts{"02/01/2006 15:04", "Monday 2 January 2006 15:04:05 MST"}},
	{language.MustParse("nl-NL"), layouts{"02-01-2006 15:04", "Monday 2 January 2006 15:04:05 MST"}},
	{language.MustParse("sv-SE"), layouts{"2006-01-02 15:04", "2006-01-02 15:04:05 MST"}},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, s := range supported {
		tags[i] = s.tag
	}
	return language.NewMatcher(tags)
}()

// UserLocale reads the locale from LC_ALL, LC_MESSAGES, LANGUAGE and LANG,
// in that order. It returns British English when none parses.
func UserLocale() language.Tag {
	for _, envVar := range []string{"LC_ALL", "LC_MESSAGES", "LANGUAGE", "LANG"} {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		// de_DE.UTF-8 -> de-DE
		base := strings.ReplaceAll(strings.SplitN(value, ".", 2)[0], "_", "-")
		if tag, err := language.Parse(base); err == nil {
			return tag
		}
	}
	return language.BritishEnglish
}

// FormatDateTime formats t, in its own location, using the layout of the
// closest supported locale.
func FormatDateTime(tag language.Tag, t time.Time, layout Layout) string {
	_, index, _ := matcher.Match(tag)
	l := supported[index].layouts
	if layout == Long {
		return t.Format(l.long)
	}
	return t.Format(l.short)
}
