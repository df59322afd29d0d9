// Package routes declares the command routes for every xaheen domain.
// Providers receive a router.HandlerFactory so handler wiring is resolved once
// at startup instead of through package-level state.
package routes

import (
	"github.com/xaheen/xaheen/internal/model"
	"github.com/xaheen/xaheen/internal/router"
)

// Provider returns the routes of one command domain.
type Provider func(f router.HandlerFactory) []model.CommandRoute

// Providers lists every domain provider in registration order.
var Providers = []Provider{Make, Project, License, Registry, Terraform, Helm, Tenant, Service}

// All concatenates the routes of every provider.
func All(f router.HandlerFactory) []model.CommandRoute {
	var out []model.CommandRoute
	for _, p := range Providers {
		out = append(out, p(f)...)
	}
	return out
}

type def struct {
	action   string
	pattern  string
	desc     string
	examples []string
	legacy   map[string][]string
}

func build(f router.HandlerFactory, domain string, defs []def) []model.CommandRoute {
	out := make([]model.CommandRoute, 0, len(defs))
	for _, d := range defs {
		r := model.CommandRoute{
			Pattern:     d.pattern,
			Domain:      domain,
			Action:      d.action,
			Description: d.desc,
			Examples:    d.examples,
			Legacy:      d.legacy,
		}
		if f != nil {
			r.Handler = f.Handler(domain, d.action)
		}
		out = append(out, r)
	}
	return out
}

// Make returns the code generator routes.
func Make(f router.HandlerFactory) []model.CommandRoute {
	return build(f, "make", []def{
		{
			action: "component", pattern: "make:component <name>",
			desc:     "Generate a UI component",
			examples: []string{"xaheen make:component Button", "xaheen make:component Nav --path src/layout"},
			legacy: map[string][]string{
				"angular": {"ng generate component", "ng g c"},
			},
		},
		{
			action: "model", pattern: "make:model <name>",
			desc:     "Generate a data model",
			examples: []string{"xaheen make:model User --field name:string -m"},
			legacy: map[string][]string{
				"laravel": {"artisan make:model", "php artisan make:model"},
			},
		},
		{
			action: "controller", pattern: "make:controller <name>",
			desc:     "Generate a controller",
			examples: []string{"xaheen make:controller UserController"},
			legacy: map[string][]string{
				"laravel": {"artisan make:controller", "php artisan make:controller"},
			},
		},
		{
			action: "service", pattern: "make:service <name>",
			desc:     "Generate a service class",
			examples: []string{"xaheen make:service Billing"},
			legacy: map[string][]string{
				"angular": {"ng generate service", "ng g s"},
			},
		},
		{
			action: "page", pattern: "make:page <name>",
			desc:     "Generate a routed page",
			examples: []string{"xaheen make:page Dashboard"},
		},
		{
			action: "layout", pattern: "make:layout <name>",
			desc:     "Generate a page layout",
			examples: []string{"xaheen make:layout AppShell"},
		},
		{
			action: "api", pattern: "make:api <name>",
			desc:     "Generate an API endpoint",
			examples: []string{"xaheen make:api orders"},
		},
		{
			action: "migration", pattern: "make:migration <name>",
			desc:     "Generate a database migration",
			examples: []string{"xaheen make:migration create_users_table"},
			legacy: map[string][]string{
				"laravel": {"artisan make:migration", "php artisan make:migration"},
			},
		},
		{
			action: "test", pattern: "make:test <name>",
			desc:     "Generate a test suite",
			examples: []string{"xaheen make:test UserService"},
			legacy: map[string][]string{
				"laravel": {"artisan make:test"},
			},
		},
	})
}

// Project returns the project lifecycle routes.
func Project(f router.HandlerFactory) []model.CommandRoute {
	return build(f, "project", []def{
		{
			action: "new", pattern: "project new <name>",
			desc:     "Create a new project",
			examples: []string{"xaheen project new shop --template next"},
			legacy: map[string][]string{
				"xaheen-v1": {"create", "new project"},
				"react":     {"create-react-app"},
			},
		},
		{
			action: "init", pattern: "project init",
			desc:     "Initialize xaheen in an existing project",
			examples: []string{"xaheen project init"},
			legacy: map[string][]string{
				"xaheen-v1": {"init"},
			},
		},
		{
			action: "validate", pattern: "project validate",
			desc:     "Validate project structure and configuration",
			examples: []string{"xaheen project validate"},
			legacy: map[string][]string{
				"xaheen-v1": {"validate", "doctor"},
			},
		},
	})
}

// License returns the license management routes.
func License(f router.HandlerFactory) []model.CommandRoute {
	return build(f, "license", []def{
		{
			action: "activate", pattern: "license activate <key>",
			desc:     "Activate a license key",
			examples: []string{"xaheen license activate XXXX-XXXX-XXXX"},
		},
		{
			action: "deactivate", pattern: "license deactivate",
			desc: "Deactivate the current license",
		},
		{
			action: "status", pattern: "license status",
			desc: "Show license status",
		},
		{
			action: "list", pattern: "license list",
			desc: "List licensed features",
		},
	})
}

// Registry returns the component registry routes.
func Registry(f router.HandlerFactory) []model.CommandRoute {
	return build(f, "registry", []def{
		{
			action: "browse", pattern: "registry browse",
			desc: "Browse the component registry",
		},
		{
			action: "search", pattern: "registry search <query>",
			desc:     "Search the component registry",
			examples: []string{"xaheen registry search date picker"},
		},
		{
			action: "install", pattern: "registry install <package>",
			desc:     "Install a registry component",
			examples: []string{"xaheen registry install ui-kit --version 2.1.0"},
			legacy: map[string][]string{
				"shadcn": {"shadcn add"},
			},
		},
		{
			action: "publish", pattern: "registry publish <package>",
			desc: "Publish a component to the registry",
		},
	})
}

// Terraform returns the infrastructure-as-code routes.
func Terraform(f router.HandlerFactory) []model.CommandRoute {
	return build(f, "terraform", []def{
		{
			action: "init", pattern: "terraform:init",
			desc:     "Scaffold Terraform configuration",
			examples: []string{"xaheen terraform:init --provider azure"},
		},
		{
			action: "module", pattern: "terraform:module <name>",
			desc:     "Generate a Terraform module",
			examples: []string{"xaheen terraform:module network"},
		},
	})
}

// Helm returns the Helm chart routes.
func Helm(f router.HandlerFactory) []model.CommandRoute {
	return build(f, "helm", []def{
		{
			action: "chart", pattern: "helm:chart <name>",
			desc:     "Generate a Helm chart",
			examples: []string{"xaheen helm:chart api -n prod"},
			legacy: map[string][]string{
				"helm": {"helm create"},
			},
		},
		{
			action: "values", pattern: "helm:values <chart>",
			desc:     "Generate environment values for a chart",
			examples: []string{"xaheen helm:values api --set replicas=3"},
		},
	})
}

// Tenant returns the multi-tenancy routes.
func Tenant(f router.HandlerFactory) []model.CommandRoute {
	return build(f, "tenant", []def{
		{
			action: "create", pattern: "tenant:create <name>",
			desc:     "Create a tenant",
			examples: []string{"xaheen tenant:create acme --isolation database"},
		},
		{
			action: "list", pattern: "tenant:list",
			desc: "List tenants",
		},
		{
			action: "isolate", pattern: "tenant:isolate <name>",
			desc: "Change a tenant's isolation strategy",
		},
	})
}

// Service returns the third-party integration routes.
func Service(f router.HandlerFactory) []model.CommandRoute {
	return build(f, "service", []def{
		{
			action: "add", pattern: "service:add <name>",
			desc:     "Add a service integration",
			examples: []string{"xaheen service:add stripe"},
		},
		{
			action: "remove", pattern: "service:remove <name>",
			desc: "Remove a service integration",
		},
		{
			action: "list", pattern: "service:list",
			desc: "List service integrations",
		},
	})
}
