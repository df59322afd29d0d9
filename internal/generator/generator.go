// Package generator turns handler arguments into typed, validated generator
// options and renders the plan each generator would execute.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/xaheen/xaheen/internal/model"
)

// ErrInvalidOptions is wrapped by every argument or validation failure.
var ErrInvalidOptions = errors.New("invalid options")

// Options is implemented by each domain's option variant.
type Options interface {
	Domain() string
	Validate() error
}

// binding describes how one domain binds its flags and positional arguments.
type binding struct {
	maxArgs int
	bind    func(fs *pflag.FlagSet, action string) func(args []string) Options
}

var bindings = map[string]binding{
	"make": {maxArgs: 1, bind: func(fs *pflag.FlagSet, action string) func([]string) Options {
		o := &MakeOptions{Action: action}
		fs.StringVar(&o.Path, "path", "", "output directory")
		fs.StringSliceVar(&o.Fields, "field", nil, "field declarations (name:type)")
		fs.BoolVarP(&o.Migration, "migration", "m", false, "also create a migration (models only)")
		fs.BoolVarP(&o.Force, "force", "f", false, "overwrite existing files")
		return func(args []string) Options {
			o.Name = arg(args, 0)
			return *o
		}
	}},
	"project": {maxArgs: 1, bind: func(fs *pflag.FlagSet, action string) func([]string) Options {
		o := &ProjectOptions{Action: action}
		fs.StringVarP(&o.Template, "template", "t", "", "project template")
		fs.StringVar(&o.Dir, "dir", ".", "target directory")
		fs.StringSliceVar(&o.Features, "feature", nil, "features to enable")
		return func(args []string) Options {
			o.Name = arg(args, 0)
			return *o
		}
	}},
	"license": {maxArgs: 1, bind: func(fs *pflag.FlagSet, action string) func([]string) Options {
		o := &LicenseOptions{Action: action}
		fs.StringVar(&o.Tier, "tier", "", "license tier")
		return func(args []string) Options {
			o.Key = arg(args, 0)
			return *o
		}
	}},
	"registry": {maxArgs: -1, bind: func(fs *pflag.FlagSet, action string) func([]string) Options {
		o := &RegistryOptions{Action: action}
		fs.StringVar(&o.Version, "version", "latest", "package version")
		return func(args []string) Options {
			if action == "search" {
				o.Query = strings.Join(args, " ")
			} else {
				o.Package = arg(args, 0)
			}
			return *o
		}
	}},
	"terraform": {maxArgs: 1, bind: func(fs *pflag.FlagSet, action string) func([]string) Options {
		o := &TerraformOptions{Action: action}
		fs.StringVar(&o.Dir, "dir", "infra", "terraform directory")
		fs.StringVar(&o.Provider, "provider", "aws", "cloud provider")
		return func(args []string) Options {
			o.Module = arg(args, 0)
			return *o
		}
	}},
	"helm": {maxArgs: 1, bind: func(fs *pflag.FlagSet, action string) func([]string) Options {
		o := &HelmOptions{Action: action}
		fs.StringVarP(&o.Namespace, "namespace", "n", "default", "kubernetes namespace")
		fs.StringArrayVar(&o.Values, "set", nil, "chart values (key=value)")
		return func(args []string) Options {
			o.Chart = arg(args, 0)
			return *o
		}
	}},
	"tenant": {maxArgs: 1, bind: func(fs *pflag.FlagSet, action string) func([]string) Options {
		o := &TenantOptions{Action: action}
		fs.StringVar(&o.Isolation, "isolation", "schema", "isolation strategy")
		return func(args []string) Options {
			o.Name = arg(args, 0)
			return *o
		}
	}},
	"service": {maxArgs: 1, bind: func(fs *pflag.FlagSet, action string) func([]string) Options {
		o := &ServiceOptions{Action: action}
		fs.StringVar(&o.Provider, "provider", "", "service provider")
		return func(args []string) Options {
			o.Name = arg(args, 0)
			return *o
		}
	}},
}

// Domains returns the sorted list of generator domains.
func Domains() []string {
	out := make([]string, 0, len(bindings))
	for d := range bindings {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func newFlagSet(domain, action string) (*pflag.FlagSet, func([]string) Options, binding, error) {
	b, ok := bindings[domain]
	if !ok {
		return nil, nil, binding{}, fmt.Errorf("%w: unknown generator domain %q", ErrInvalidOptions, domain)
	}
	fs := pflag.NewFlagSet(domain+":"+action, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	build := b.bind(fs, action)
	return fs, build, b, nil
}

// Parse builds and validates the option variant for domain:action from args.
// A -h/--help argument yields pflag.ErrHelp.
func Parse(domain, action string, args []string) (Options, error) {
	fs, build, b, err := newFlagSet(domain, action)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s:%s: %v", ErrInvalidOptions, domain, action, err)
	}
	rest := fs.Args()
	if b.maxArgs >= 0 && len(rest) > b.maxArgs {
		return nil, fmt.Errorf("%w: %s:%s: unexpected argument %q", ErrInvalidOptions, domain, action, rest[b.maxArgs])
	}
	opts := build(rest)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("%s:%s: %w", domain, action, err)
	}
	return opts, nil
}

// Usage returns the flag help for domain:action.
func Usage(domain, action string) string {
	fs, _, _, err := newFlagSet(domain, action)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Usage: xaheen %s:%s [args] [flags]\n\nFlags:\n%s", domain, action, fs.FlagUsages())
}

// Plan renders a one-line summary of what the generator would do.
func Plan(opts Options) string {
	var head string
	var details []string
	add := func(label, v string) {
		if v != "" {
			details = append(details, label+": "+v)
		}
	}

	switch o := opts.(type) {
	case MakeOptions:
		head = fmt.Sprintf("make:%s %s", o.Action, o.Name)
		add("path", o.Path)
		add("fields", strings.Join(o.Fields, ", "))
		if o.Migration {
			details = append(details, "with migration")
		}
		if o.Force {
			details = append(details, "overwrite")
		}
	case ProjectOptions:
		head = strings.TrimSpace("project:" + o.Action + " " + o.Name)
		add("template", o.Template)
		add("dir", o.Dir)
		add("features", strings.Join(o.Features, ", "))
	case LicenseOptions:
		head = "license:" + o.Action
		if o.Key != "" {
			add("key", maskKey(o.Key))
		}
		add("tier", o.Tier)
	case RegistryOptions:
		head = "registry:" + o.Action
		add("query", o.Query)
		add("package", o.Package)
		if o.Package != "" {
			add("version", o.Version)
		}
	case TerraformOptions:
		head = strings.TrimSpace("terraform:" + o.Action + " " + o.Module)
		add("provider", o.Provider)
		add("dir", o.Dir)
	case HelmOptions:
		head = fmt.Sprintf("helm:%s %s", o.Action, o.Chart)
		add("namespace", o.Namespace)
		add("set", strings.Join(o.Values, ", "))
	case TenantOptions:
		head = strings.TrimSpace("tenant:" + o.Action + " " + o.Name)
		if o.Action != "list" {
			add("isolation", o.Isolation)
		}
	case ServiceOptions:
		head = strings.TrimSpace("service:" + o.Action + " " + o.Name)
		add("provider", o.Provider)
	default:
		return fmt.Sprintf("plan: %s (unknown options %T)", opts.Domain(), opts)
	}

	if len(details) == 0 {
		return "plan: " + head
	}
	return fmt.Sprintf("plan: %s (%s)", head, strings.Join(details, "; "))
}

func maskKey(k string) string {
	if len(k) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}

// Handler returns the handler that validates arguments for domain:action and
// prints its plan.
func Handler(domain, action string) model.Handler {
	return func(ctx context.Context, w io.Writer, args []string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		opts, err := Parse(domain, action, args)
		if errors.Is(err, pflag.ErrHelp) {
			_, err = io.WriteString(w, Usage(domain, action))
			return err
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, Plan(opts))
		return err
	}
}
