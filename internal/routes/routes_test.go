package routes

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaheen/xaheen/internal/catalog"
	"github.com/xaheen/xaheen/internal/model"
	"github.com/xaheen/xaheen/internal/router"
)

type recordingFactory struct {
	calls []string
}

func (r *recordingFactory) Handler(domain, action string) model.Handler {
	r.calls = append(r.calls, domain+":"+action)
	return func(context.Context, io.Writer, []string) error { return nil }
}

func keys(routes []model.CommandRoute) map[string]bool {
	out := make(map[string]bool, len(routes))
	for _, r := range routes {
		out[r.Key()] = true
	}
	return out
}

func TestAllUniqueKeys(t *testing.T) {
	routes := All(nil)
	seen := map[string]bool{}
	for _, r := range routes {
		require.NotEmpty(t, r.Domain)
		require.NotEmpty(t, r.Action)
		assert.False(t, seen[r.Key()], "duplicate key %s", r.Key())
		seen[r.Key()] = true
		assert.NotEmpty(t, r.Pattern, r.Key())
		assert.NotEmpty(t, r.Description, r.Key())
		assert.Nil(t, r.Handler, "nil factory leaves handlers unset")
	}
	assert.Len(t, routes, 30)
}

func TestFactoryInjected(t *testing.T) {
	f := &recordingFactory{}
	routes := License(f)
	require.Len(t, routes, 4)
	for _, r := range routes {
		assert.NotNil(t, r.Handler, r.Key())
	}
	assert.Equal(t, []string{"license:activate", "license:deactivate", "license:status", "license:list"}, f.calls)
}

func TestHandlerFuncAdapter(t *testing.T) {
	var got []string
	f := router.HandlerFunc(func(domain, action string) model.Handler {
		got = append(got, domain+"/"+action)
		return nil
	})
	Helm(f)
	assert.Equal(t, []string{"helm/chart", "helm/values"}, got)
}

func TestCatalogReferencesRegisteredRoutes(t *testing.T) {
	known := keys(All(nil))
	cat := catalog.Default()

	for alias, key := range cat.Aliases {
		assert.True(t, known[key], "alias %q targets unknown command %q", alias, key)
	}
	for key := range cat.Categories {
		assert.True(t, known[key], "category for unknown command %q", key)
	}
	for key := range known {
		_, ok := cat.Categories[key]
		assert.True(t, ok, "command %q has no category", key)
	}
	for fw, entries := range cat.Frameworks {
		for _, e := range entries {
			assert.True(t, known[e.Command], "framework %s suggests unknown %q", fw, e.Command)
		}
	}
	for from, entries := range cat.Workflows {
		assert.True(t, known[from], "workflow from unknown %q", from)
		for _, e := range entries {
			assert.True(t, known[e.Command], "workflow %s suggests unknown %q", from, e.Command)
		}
	}
	for _, p := range cat.Popular {
		assert.True(t, known[p], "popular command %q unknown", p)
	}
}

func TestLegacyAliasesResolve(t *testing.T) {
	m := router.NewMatcher()
	m.RegisterCommands(All(nil))

	tests := map[string]string{
		"ng g c":                 "make:component",
		"php artisan make:model": "make:model",
		"helm create":            "helm:chart",
		"create-react-app":       "project:new",
		"doctor":                 "project:validate",
	}
	for in, want := range tests {
		route, ok := m.Resolve(in)
		if assert.True(t, ok, in) {
			assert.Equal(t, want, route.Key(), in)
		}
	}
}
