package generator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestParseMake(t *testing.T) {
	opts, err := Parse("make", "model", []string{"User", "--field", "name:string,email:string", "-m"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mo, ok := opts.(MakeOptions)
	if !ok {
		t.Fatalf("got %T, want MakeOptions", opts)
	}
	if mo.Name != "User" || !mo.Migration || len(mo.Fields) != 2 {
		t.Errorf("unexpected options %+v", mo)
	}
	if mo.Domain() != "make" {
		t.Errorf("Domain() = %q", mo.Domain())
	}
}

func TestParseVariants(t *testing.T) {
	tests := []struct {
		domain, action string
		args           []string
		wantPlan       string
	}{
		{"make", "component", []string{"Button", "--path", "src/ui"}, "plan: make:component Button (path: src/ui)"},
		{"project", "new", []string{"shop", "-t", "next", "--feature", "auth"}, "plan: project:new shop (template: next; dir: .; features: auth)"},
		{"project", "validate", nil, "plan: project:validate (dir: .)"},
		{"license", "activate", []string{"ABCD-1234-WXYZ", "--tier", "pro"}, "plan: license:activate (key: **********WXYZ; tier: pro)"},
		{"license", "status", nil, "plan: license:status"},
		{"registry", "search", []string{"date", "picker"}, "plan: registry:search (query: date picker)"},
		{"registry", "install", []string{"ui-kit", "--version", "2.1.0"}, "plan: registry:install (package: ui-kit; version: 2.1.0)"},
		{"terraform", "module", []string{"network", "--provider", "gcp"}, "plan: terraform:module network (provider: gcp; dir: infra)"},
		{"helm", "chart", []string{"api", "-n", "prod", "--set", "replicas=3"}, "plan: helm:chart api (namespace: prod; set: replicas=3)"},
		{"tenant", "create", []string{"acme"}, "plan: tenant:create acme (isolation: schema)"},
		{"tenant", "list", nil, "plan: tenant:list"},
		{"service", "add", []string{"stripe", "--provider", "payments"}, "plan: service:add stripe (provider: payments)"},
		{"registry", "publish", []string{"ui-kit", "--version", "v1.4.0"}, "plan: registry:publish (package: ui-kit; version: v1.4.0)"},
	}
	for _, tt := range tests {
		t.Run(tt.domain+":"+tt.action, func(t *testing.T) {
			opts, err := Parse(tt.domain, tt.action, tt.args)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if opts.Domain() != tt.domain {
				t.Errorf("Domain() = %q, want %q", opts.Domain(), tt.domain)
			}
			if got := Plan(opts); got != tt.wantPlan {
				t.Errorf("Plan = %q\n want %q", got, tt.wantPlan)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name           string
		domain, action string
		args           []string
	}{
		{"unknown domain", "deploy", "now", nil},
		{"unknown action", "make", "widget", []string{"X"}},
		{"missing name", "make", "model", nil},
		{"bad identifier", "make", "model", []string{"9lives"}},
		{"bad field", "make", "model", []string{"User", "--field", "Name"}},
		{"migration on component", "make", "component", []string{"Nav", "--migration"}},
		{"extra arg", "make", "model", []string{"User", "Post"}},
		{"unknown flag", "make", "model", []string{"User", "--colour"}},
		{"project new without name", "project", "new", nil},
		{"bad template", "project", "new", []string{"app", "-t", "cobol"}},
		{"license without key", "license", "activate", nil},
		{"bad tier", "license", "status", []string{"--tier", "gold"}},
		{"empty search", "registry", "search", nil},
		{"install without package", "registry", "install", nil},
		{"install bad constraint", "registry", "install", []string{"ui-kit", "--version", "two point oh"}},
		{"publish without version", "registry", "publish", []string{"ui-kit"}},
		{"publish with range", "registry", "publish", []string{"ui-kit", "--version", "^1.0"}},
		{"bad provider", "terraform", "init", []string{"--provider", "heroku"}},
		{"module without name", "terraform", "module", nil},
		{"helm bad value", "helm", "values", []string{"api", "--set", "noequals"}},
		{"tenant bad isolation", "tenant", "isolate", []string{"acme", "--isolation", "vm"}},
		{"service without name", "service", "remove", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.domain, tt.action, tt.args)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("err = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestParseHelp(t *testing.T) {
	_, err := Parse("make", "model", []string{"--help"})
	if !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("err = %v, want pflag.ErrHelp", err)
	}
}

func TestHandler(t *testing.T) {
	h := Handler("make", "model")

	var buf bytes.Buffer
	if err := h(context.Background(), &buf, []string{"User"}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "plan: make:model User" {
		t.Errorf("output = %q", got)
	}

	buf.Reset()
	if err := h(context.Background(), &buf, []string{"-h"}); err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(buf.String(), "--migration") {
		t.Errorf("help output missing flags: %q", buf.String())
	}

	if err := h(context.Background(), &buf, nil); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("missing name err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h(ctx, &buf, []string{"User"}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled ctx err = %v", err)
	}
}

func TestDomains(t *testing.T) {
	got := Domains()
	if len(got) != 8 {
		t.Fatalf("Domains() = %v, want 8 entries", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Errorf("not sorted: %v", got)
		}
	}
}
