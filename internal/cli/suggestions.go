package cli

import (
	"fmt"
	"strings"

	"github.com/jvs-project/zonectl/internal/zone"
	"github.com/jvs-project/zonectl/pkg/color"
)

// suggestZones provides helpful suggestions when a zone is not found.
func suggestZones(name string, zones []*zone.Zone) string {
	if len(zones) == 0 {
		return fmt.Sprintf("No zones exist yet. Run %s to configure one.", color.Header("zonectl create"))
	}

	// Try to find close matches by name
	var matches []string
	lower := strings.ToLower(name)
	for _, z := range zones {
		zn := strings.ToLower(z.Name())
		if strings.HasPrefix(zn, lower) || strings.Contains(zn, lower) {
			matches = append(matches, color.Success(z.Name()))
		}
		if len(matches) == 3 {
			break
		}
	}
	if len(matches) > 0 {
		hint := "Did you mean"
		if len(matches) > 1 {
			hint += " one of"
		}
		return fmt.Sprintf("%s: %s?", hint, strings.Join(matches, ", "))
	}

	return fmt.Sprintf("Run %s to see available zones.", color.Header("zonectl list"))
}

// formatZoneNotFoundError formats a zone-not-found error with suggestions.
func formatZoneNotFoundError(name string, zones []*zone.Zone) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("zone '%s' not found", name))
	sb.WriteString("\n")
	sb.WriteString(color.Dim("  " + suggestZones(name, zones)))
	return sb.String()
}
