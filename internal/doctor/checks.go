package doctor

import (
	"fmt"
	"os"
	"runtime"

	"github.com/thoreinstein/dynval/internal/account"
	"github.com/thoreinstein/dynval/internal/catalog"
	"github.com/thoreinstein/dynval/internal/config"
)

// maxSecureFilePerm is the loosest acceptable mode for the config file (-rw-r--r--).
const maxSecureFilePerm os.FileMode = 0o644

// ConfigFileCheck loads and validates the config file.
type ConfigFileCheck struct {
	path string
	cat  *catalog.Catalog
}

var _ Check = (*ConfigFileCheck)(nil)

// NewConfigFileCheck checks the config at path, or the default search
// locations when path is empty. Rule kinds are resolved against cat.
func NewConfigFileCheck(path string, cat *catalog.Catalog) *ConfigFileCheck {
	return &ConfigFileCheck{path: path, cat: cat}
}

// Name returns the unique identifier for this check.
func (c *ConfigFileCheck) Name() string { return "config-file" }

// Category returns the grouping for this check.
func (c *ConfigFileCheck) Category() string { return "config" }

// Run loads the config with a fresh Viper state.
func (c *ConfigFileCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	config.Init()
	cfg, err := config.LoadWithCatalog(c.path, c.cat)
	if err != nil {
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = "Fix the file, or run: dynval config init --force"
		return res
	}

	used := config.FileUsed()
	if used == "" {
		res.Status = SeverityInfo
		res.Message = "no config file found; using defaults"
		res.FixHint = "Run: dynval config init"
		return res
	}

	res.Status = SeverityPass
	res.Message = "config file is valid"
	res.Details = map[string]any{"path": used, "rules": len(cfg.Rules), "format": cfg.Format}
	return res
}

// PermissionCheck warns about a config file writable by group or others.
type PermissionCheck struct {
	path string
}

var _ Check = (*PermissionCheck)(nil)

// NewPermissionCheck checks the mode of the file at path.
func NewPermissionCheck(path string) *PermissionCheck {
	return &PermissionCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *PermissionCheck) Name() string { return "config-permissions" }

// Category returns the grouping for this check.
func (c *PermissionCheck) Category() string { return "filesystem" }

// Run stats the file. A missing file passes.
func (c *PermissionCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category(), Details: map[string]any{"path": c.path}}

	info, err := os.Stat(c.path)
	switch {
	case os.IsNotExist(err):
		res.Status = SeverityPass
		res.Message = "no config file to check"
		return res
	case err != nil:
		res.Status = SeverityError
		res.Message = fmt.Sprintf("cannot stat file: %v", err)
		return res
	case info.IsDir():
		res.Status = SeverityError
		res.Message = "expected file but found directory"
		return res
	}

	perm := info.Mode().Perm()
	res.Details["permissions"] = fmt.Sprintf("%04o", perm)

	// Unix permissions don't apply on Windows.
	if runtime.GOOS != "windows" && perm&^maxSecureFilePerm != 0 {
		res.Status = SeverityWarning
		res.Message = "config file is writable by group or others"
		res.FixHint = "chmod 644 " + c.path
		return res
	}

	res.Status = SeverityPass
	res.Message = "permissions are secure"
	return res
}

// RulesCheck builds every rule against a throwaway account, catching option
// errors that only surface when a rule is added to a record.
type RulesCheck struct {
	rules []catalog.Rule
	cat   *catalog.Catalog
}

var _ Check = (*RulesCheck)(nil)

// NewRulesCheck checks rules against cat.
func NewRulesCheck(rules []catalog.Rule, cat *catalog.Catalog) *RulesCheck {
	return &RulesCheck{rules: rules, cat: cat}
}

// Name returns the unique identifier for this check.
func (c *RulesCheck) Name() string { return "config-rules" }

// Category returns the grouping for this check.
func (c *RulesCheck) Category() string { return "rules" }

// Run applies each rule on its own so every failure is reported.
func (c *RulesCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	var failures []string
	for i, rule := range c.rules {
		if err := c.build(rule); err != nil {
			failures = append(failures, fmt.Sprintf("rules[%d] %s: %v", i, rule, err))
		}
	}

	if len(failures) > 0 {
		res.Status = SeverityError
		res.Message = fmt.Sprintf("%d of %d rules cannot be built", len(failures), len(c.rules))
		res.Details = map[string]any{"failures": failures}
		res.FixHint = "Run: dynval catalog show <kind>"
		return res
	}

	res.Status = SeverityPass
	res.Message = fmt.Sprintf("%d rules build", len(c.rules))
	return res
}

func (c *RulesCheck) build(rule catalog.Rule) error {
	ref, err := c.cat.Lookup(rule.Kind)
	if err != nil {
		return err
	}
	probe := &account.Account{}
	return probe.AddValidator(ref, rule.Options)
}
