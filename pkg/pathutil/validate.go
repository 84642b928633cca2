// Package pathutil provides zone name and zonecfg value validation.
package pathutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/jvs-project/zonectl/pkg/errclass"
)

// MaxZoneNameLen is the longest zone name the zone tools accept.
const MaxZoneNameLen = 64

var zoneNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateZoneName checks a name before it is used to create a zone.
// Names read back from the listing are trusted and not re-validated.
func ValidateZoneName(name string) error {
	if name == "" {
		return errclass.ErrNameInvalid.WithMessage("zone name must not be empty")
	}

	if !norm.NFC.IsNormalString(name) {
		return errclass.ErrNameInvalid.WithMessagef("zone name is not NFC normalized: %q", name)
	}

	if len(name) > MaxZoneNameLen {
		return errclass.ErrNameInvalid.WithMessagef("zone name longer than %d characters: %s", MaxZoneNameLen, name)
	}

	if name == "global" || strings.HasPrefix(name, "SUNW") {
		return errclass.ErrNameInvalid.WithMessagef("zone name is reserved: %s", name)
	}

	if !zoneNameRegex.MatchString(name) {
		return errclass.ErrNameInvalid.WithMessagef("zone name must match [a-zA-Z0-9][a-zA-Z0-9._-]*: %s", name)
	}

	return nil
}

// ValidateConfigValue rejects text that would change the structure of a
// zonecfg command script: statement separators, quotes and control
// characters.
func ValidateConfigValue(value string) error {
	if value == "" {
		return errclass.ErrConfigInvalid.WithMessage("value must not be empty")
	}
	if strings.ContainsAny(value, `;"\`) {
		return errclass.ErrConfigInvalid.WithMessagef("value must not contain ';', '\"' or '\\': %q", value)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return errclass.ErrConfigInvalid.WithMessagef("value must not contain control characters: %q", value)
		}
	}
	return nil
}

// QuoteConfigValue wraps a validated value in double quotes when it holds
// whitespace, so zonecfg reads it as one token.
func QuoteConfigValue(value string) string {
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return `"` + value + `"`
	}
	return value
}
