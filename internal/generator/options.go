package generator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// fieldRe matches name:type field declarations like "email:string".
var fieldRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*:[a-z]+$`)

func requireIdent(what, v string) error {
	if v == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidOptions, what)
	}
	if !identRe.MatchString(v) {
		return fmt.Errorf("%w: %s %q must start with a letter and contain only letters, digits, - or _", ErrInvalidOptions, what, v)
	}
	return nil
}

func oneOf(what, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalidOptions, what, strings.Join(allowed, ", "), v)
}

// MakeOptions configures the code generators under "make".
type MakeOptions struct {
	Action    string
	Name      string
	Path      string
	Fields    []string
	Migration bool
	Force     bool
}

func (o MakeOptions) Domain() string { return "make" }

func (o MakeOptions) Validate() error {
	if err := oneOf("make action", o.Action,
		"component", "model", "controller", "service", "page", "layout", "api", "migration", "test"); err != nil {
		return err
	}
	if err := requireIdent("name", o.Name); err != nil {
		return err
	}
	for _, f := range o.Fields {
		if !fieldRe.MatchString(f) {
			return fmt.Errorf("%w: field %q must look like name:type", ErrInvalidOptions, f)
		}
	}
	if o.Migration && o.Action != "model" {
		return fmt.Errorf("%w: --migration only applies to make:model", ErrInvalidOptions)
	}
	return nil
}

// ProjectOptions configures project scaffolding.
type ProjectOptions struct {
	Action   string
	Name     string
	Template string
	Dir      string
	Features []string
}

func (o ProjectOptions) Domain() string { return "project" }

func (o ProjectOptions) Validate() error {
	if err := oneOf("project action", o.Action, "new", "init", "validate"); err != nil {
		return err
	}
	if o.Action == "new" {
		if err := requireIdent("project name", o.Name); err != nil {
			return err
		}
	}
	if o.Template != "" {
		if err := oneOf("template", o.Template, "react", "next", "vue", "angular", "laravel", "go"); err != nil {
			return err
		}
	}
	return nil
}

// LicenseOptions configures license management.
type LicenseOptions struct {
	Action string
	Key    string
	Tier   string
}

func (o LicenseOptions) Domain() string { return "license" }

func (o LicenseOptions) Validate() error {
	if err := oneOf("license action", o.Action, "activate", "deactivate", "status", "list"); err != nil {
		return err
	}
	if o.Action == "activate" && o.Key == "" {
		return fmt.Errorf("%w: license key is required", ErrInvalidOptions)
	}
	if o.Tier != "" {
		if err := oneOf("tier", o.Tier, "community", "pro", "enterprise"); err != nil {
			return err
		}
	}
	return nil
}

// RegistryOptions configures component registry access.
type RegistryOptions struct {
	Action  string
	Query   string
	Package string
	Version string
}

func (o RegistryOptions) Domain() string { return "registry" }

func (o RegistryOptions) Validate() error {
	if err := oneOf("registry action", o.Action, "browse", "search", "install", "publish"); err != nil {
		return err
	}
	switch o.Action {
	case "search":
		if strings.TrimSpace(o.Query) == "" {
			return fmt.Errorf("%w: search query is required", ErrInvalidOptions)
		}
	case "install", "publish":
		if o.Package == "" {
			return fmt.Errorf("%w: package is required", ErrInvalidOptions)
		}
	}
	return validateVersion(o.Action, o.Version)
}

// TerraformOptions configures infrastructure-as-code generation.
type TerraformOptions struct {
	Action   string
	Dir      string
	Provider string
	Module   string
}

func (o TerraformOptions) Domain() string { return "terraform" }

func (o TerraformOptions) Validate() error {
	if err := oneOf("terraform action", o.Action, "init", "module"); err != nil {
		return err
	}
	if err := oneOf("provider", o.Provider, "aws", "azure", "gcp"); err != nil {
		return err
	}
	if o.Action == "module" {
		return requireIdent("module name", o.Module)
	}
	return nil
}

// HelmOptions configures Helm chart generation.
type HelmOptions struct {
	Action    string
	Chart     string
	Namespace string
	Values    []string
}

func (o HelmOptions) Domain() string { return "helm" }

func (o HelmOptions) Validate() error {
	if err := oneOf("helm action", o.Action, "chart", "values"); err != nil {
		return err
	}
	if err := requireIdent("chart name", o.Chart); err != nil {
		return err
	}
	for _, v := range o.Values {
		if k, _, ok := strings.Cut(v, "="); !ok || k == "" {
			return fmt.Errorf("%w: value %q must be key=value", ErrInvalidOptions, v)
		}
	}
	return nil
}

// TenantOptions configures multi-tenancy scaffolding.
type TenantOptions struct {
	Action    string
	Name      string
	Isolation string
}

func (o TenantOptions) Domain() string { return "tenant" }

func (o TenantOptions) Validate() error {
	if err := oneOf("tenant action", o.Action, "create", "list", "isolate"); err != nil {
		return err
	}
	if o.Action == "list" {
		return nil
	}
	if err := requireIdent("tenant name", o.Name); err != nil {
		return err
	}
	return oneOf("isolation", o.Isolation, "row", "schema", "database")
}

// ServiceOptions configures third-party service integrations.
type ServiceOptions struct {
	Action   string
	Name     string
	Provider string
}

func (o ServiceOptions) Domain() string { return "service" }

func (o ServiceOptions) Validate() error {
	if err := oneOf("service action", o.Action, "add", "remove", "list"); err != nil {
		return err
	}
	if o.Action == "list" {
		return nil
	}
	return requireIdent("service name", o.Name)
}

// validateVersion accepts "latest" or a semver constraint for install and an
// exact version for publish.
func validateVersion(action, v string) error {
	if v == "" || v == "latest" {
		if action == "publish" && v == "latest" {
			return fmt.Errorf("%w: publish needs an explicit --version", ErrInvalidOptions)
		}
		return nil
	}
	if action == "publish" {
		if _, err := semver.StrictNewVersion(strings.TrimPrefix(v, "v")); err != nil {
			return fmt.Errorf("%w: version %q: %v", ErrInvalidOptions, v, err)
		}
		return nil
	}
	if _, err := semver.NewConstraint(v); err != nil {
		return fmt.Errorf("%w: version constraint %q: %v", ErrInvalidOptions, v, err)
	}
	return nil
}
