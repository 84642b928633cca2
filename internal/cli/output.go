package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kballard/go-shellquote"

	"github.com/jvs-project/zonectl/internal/zone"
	"github.com/jvs-project/zonectl/pkg/color"
	"github.com/jvs-project/zonectl/pkg/model"
)

// printResult reports a mutating operation. In dry-run mode each argv is
// printed on its own line, shell-quoted for display only.
func printResult(res *zone.Result, done string) error {
	if jsonOutput {
		return outputJSON(res)
	}
	if res.DryRun {
		for _, argv := range res.Argv {
			fmt.Println(shellquote.Join(argv...))
		}
		return nil
	}
	fmt.Println(color.Successf("Zone %s %s.", res.Zone, done))
	if res.Output != "" {
		fmt.Print(res.Output)
		if !strings.HasSuffix(res.Output, "\n") {
			fmt.Println()
		}
	}
	return nil
}

// zoneTable renders zone records as an aligned table.
func zoneTable(records []model.ZoneRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		brand := r.Brand
		if brand == "" {
			brand = "-"
		}
		rows = append(rows, []string{r.ID, r.Name, color.State(r.RawState), r.Zonepath, brand, r.IPType})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Headers("ID", "NAME", "STATUS", "PATH", "BRAND", "IP").
		Rows(rows...)
	return t.String()
}

// parseAssignments turns k=v arguments into a map.
func parseAssignments(args []string) (map[string]string, error) {
	attrs := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if _, dup := attrs[k]; dup {
			return nil, fmt.Errorf("duplicate key %q", k)
		}
		attrs[k] = v
	}
	return attrs, nil
}
