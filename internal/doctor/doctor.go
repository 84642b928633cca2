// Package doctor runs host health checks for zone management: tool
// binaries, the template directory, caller privileges and the zone listing.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jvs-project/zonectl/internal/audit"
	"github.com/jvs-project/zonectl/internal/privilege"
	"github.com/jvs-project/zonectl/internal/runner"
	"github.com/jvs-project/zonectl/internal/zone"
	"github.com/jvs-project/zonectl/pkg/config"
	"github.com/jvs-project/zonectl/pkg/fsutil"
	"github.com/jvs-project/zonectl/pkg/model"
)

// Finding represents a detected issue.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
}

// Result contains doctor check results.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

func (r *Result) add(f Finding) {
	r.Findings = append(r.Findings, f)
	if f.Severity == "critical" {
		r.Healthy = false
	}
}

// Doctor performs host health checks.
type Doctor struct {
	cfg        *config.Config
	runner     runner.Runner
	gate       zone.Authorizer
	configPath string
}

// NewDoctor creates a new doctor. configPath locates leftover temp files
// from interrupted config saves; it may be empty.
func NewDoctor(cfg *config.Config, r runner.Runner, gate zone.Authorizer, configPath string) *Doctor {
	return &Doctor{cfg: cfg, runner: r, gate: gate, configPath: configPath}
}

// Check runs all diagnostic checks. strict additionally verifies the
// audit journal's hash chain.
func (d *Doctor) Check(strict bool) (*Result, error) {
	result := &Result{Healthy: true}

	// 1. Tool binaries
	zoneadmOK := d.checkTools(result)

	// 2. Template directory
	d.checkTemplateDir(result)

	// 3. Caller privileges
	d.checkPrivileges(result)

	// 4. Zone listing
	if zoneadmOK {
		d.checkListing(result)
	}

	// 5. Audit chain (if strict)
	if strict && d.cfg.Audit.Enabled {
		d.checkAudit(result)
	}

	// 6. Orphan tmp files
	d.checkOrphanTmp(result)

	return result, nil
}

func (d *Doctor) tools() []struct{ name, path string } {
	return []struct{ name, path string }{
		{"zoneadm", d.cfg.Tools.Zoneadm},
		{"zonecfg", d.cfg.Tools.Zonecfg},
		{"zlogin", d.cfg.Tools.Zlogin},
		{"pfexec", d.cfg.Tools.Pfexec},
		{"profiles", d.cfg.Tools.Profiles},
	}
}

// checkTools reports missing or non-executable binaries and returns
// whether zoneadm is usable.
func (d *Doctor) checkTools(result *Result) bool {
	zoneadmOK := true
	for _, tool := range d.tools() {
		info, err := os.Stat(tool.path)
		var problem string
		switch {
		case err != nil:
			problem = fmt.Sprintf("%s not found", tool.name)
		case info.IsDir():
			problem = fmt.Sprintf("%s is a directory", tool.name)
		case info.Mode().Perm()&0111 == 0:
			problem = fmt.Sprintf("%s is not executable", tool.name)
		default:
			continue
		}
		result.add(Finding{
			Category:    "tools",
			Description: problem,
			Severity:    "critical",
			Path:        tool.path,
		})
		if tool.name == "zoneadm" {
			zoneadmOK = false
		}
	}
	return zoneadmOK
}

func (d *Doctor) checkTemplateDir(result *Result) {
	dir := d.cfg.Templates.Dir
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		result.add(Finding{
			Category:    "templates",
			Description: "template directory missing; create will fail",
			Severity:    "error",
			Path:        dir,
		})
		return
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*"+d.cfg.Templates.Suffix))
	if len(matches) == 0 {
		result.add(Finding{
			Category:    "templates",
			Description: fmt.Sprintf("no *%s templates found", d.cfg.Templates.Suffix),
			Severity:    "warning",
			Path:        dir,
		})
	}
}

func (d *Doctor) checkPrivileges(result *Result) {
	err := d.gate.Authorize(privilege.NewRequirements(d.cfg.RequiredProfiles))
	if err != nil {
		result.add(Finding{
			Category:    "privilege",
			Description: fmt.Sprintf("mutating operations will be refused: %v", err),
			Severity:    "warning",
		})
	}
}

func (d *Doctor) checkListing(result *Result) {
	out, err := d.runner.Run([]string{d.cfg.Tools.Zoneadm, "list", "-pc"})
	if err != nil {
		result.add(Finding{
			Category:    "listing",
			Description: fmt.Sprintf("zone listing failed: %v", err),
			Severity:    "critical",
		})
		return
	}

	for n, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		attrs, err := zone.ParseRecord(line)
		if err != nil {
			result.add(Finding{
				Category:    "listing",
				Description: fmt.Sprintf("line %d: %v", n+1, err),
				Severity:    "error",
			})
			continue
		}
		if model.ParseState(attrs.Value(zone.FieldState)) == model.StateIncomplete {
			result.add(Finding{
				Category:    "zone",
				Description: fmt.Sprintf("zone '%s' is incomplete; uninstall or delete it", attrs.Value(zone.FieldName)),
				Severity:    "warning",
				Path:        attrs.Value(zone.FieldZonepath),
			})
		}
	}
}

func (d *Doctor) checkAudit(result *Result) {
	n, err := audit.NewFileAppender(d.cfg.Audit.Path).Verify()
	if err != nil {
		result.add(Finding{
			Category:    "audit",
			Description: fmt.Sprintf("audit chain broken after %d records: %v", n, err),
			Severity:    "critical",
			Path:        d.cfg.Audit.Path,
		})
	}
}

func (d *Doctor) orphanTmp() []string {
	if d.configPath == "" {
		return nil
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(d.configPath), fsutil.TempPrefix+"*"))
	return matches
}

func (d *Doctor) checkOrphanTmp(result *Result) {
	for _, path := range d.orphanTmp() {
		result.add(Finding{
			Category:    "tmp",
			Description: fmt.Sprintf("orphan temp file: %s", filepath.Base(path)),
			Severity:    "info",
			Path:        path,
		})
	}
}

// RepairAction describes one available repair.
type RepairAction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// RepairResult reports the outcome of one repair action.
type RepairResult struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Cleaned int    `json:"cleaned"`
}

// ListRepairActions returns the repairs doctor can perform.
func (d *Doctor) ListRepairActions() []RepairAction {
	return []RepairAction{
		{ID: "clean_tmp", Description: "remove temp files left by interrupted config saves"},
	}
}

// Repair runs the named repair actions. Unknown actions are reported as
// failed results, not errors.
func (d *Doctor) Repair(actions []string) ([]RepairResult, error) {
	var results []RepairResult
	for _, id := range actions {
		switch id {
		case "clean_tmp":
			results = append(results, d.cleanTmp())
		default:
			results = append(results, RepairResult{
				Action:  id,
				Message: fmt.Sprintf("unknown repair action: %s", id),
			})
		}
	}
	return results, nil
}

func (d *Doctor) cleanTmp() RepairResult {
	res := RepairResult{Action: "clean_tmp", Success: true}
	for _, path := range d.orphanTmp() {
		if err := os.Remove(path); err != nil {
			res.Success = false
			res.Message = err.Error()
			continue
		}
		res.Cleaned++
	}
	return res
}
