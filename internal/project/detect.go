// Package project infers the project context (framework and features) of a
// working directory from its manifest files.
package project

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xaheen/xaheen/internal/model"
)

// frameworkDeps is checked in order: meta-frameworks first since they also
// depend on their base library.
var frameworkDeps = []struct {
	dep       string
	framework string
}{
	{"next", "next"},
	{"nuxt", "vue"},
	{"@angular/core", "angular"},
	{"vue", "vue"},
	{"svelte", "svelte"},
	{"react", "react"},
}

// featureDeps maps manifest dependencies to project features.
var featureDeps = map[string]string{
	"next-auth":          "auth",
	"@auth/core":         "auth",
	"passport":           "auth",
	"laravel/sanctum":    "auth",
	"laravel/passport":   "auth",
	"stancl/tenancy":     "multitenancy",
	"@prisma/client":     "database",
	"prisma":             "database",
	"typeorm":            "database",
	"stripe":             "payments",
	"laravel/cashier":    "payments",
	"@stripe/stripe-js":  "payments",
	"github.com/lib/pq":  "database",
	"modernc.org/sqlite": "database",
}

type packageJSON struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type composerJSON struct {
	Name    string            `json:"name"`
	Require map[string]string `json:"require"`
}

// Detect inspects dir for package.json, composer.json or go.mod. It returns
// nil with no error when no manifest is found.
func Detect(dir string) (*model.ProjectContext, error) {
	if ctx, err := detectNode(dir); ctx != nil || err != nil {
		return ctx, err
	}
	if ctx, err := detectComposer(dir); ctx != nil || err != nil {
		return ctx, err
	}
	return detectGo(dir)
}

func readManifest(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func detectNode(dir string) (*model.ProjectContext, error) {
	var pkg packageJSON
	ok, err := readManifest(filepath.Join(dir, "package.json"), &pkg)
	if !ok || err != nil {
		return nil, err
	}
	deps := make(map[string]bool, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for d := range pkg.Dependencies {
		deps[d] = true
	}
	for d := range pkg.DevDependencies {
		deps[d] = true
	}

	ctx := &model.ProjectContext{Name: pkg.Name}
	for _, fd := range frameworkDeps {
		if deps[fd.dep] {
			ctx.Framework = fd.framework
			break
		}
	}
	ctx.Features = features(deps)
	if ctx.Name == "" {
		ctx.Name = filepath.Base(dir)
	}
	return ctx, nil
}

func detectComposer(dir string) (*model.ProjectContext, error) {
	var c composerJSON
	ok, err := readManifest(filepath.Join(dir, "composer.json"), &c)
	if !ok || err != nil {
		return nil, err
	}
	deps := make(map[string]bool, len(c.Require))
	for d := range c.Require {
		deps[d] = true
	}
	ctx := &model.ProjectContext{Name: c.Name, Features: features(deps)}
	if deps["laravel/framework"] {
		ctx.Framework = "laravel"
	}
	if ctx.Name == "" {
		ctx.Name = filepath.Base(dir)
	}
	return ctx, nil
}

func detectGo(dir string) (*model.ProjectContext, error) {
	f, err := os.Open(filepath.Join(dir, "go.mod"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open go.mod: %w", err)
	}
	defer f.Close()

	ctx := &model.ProjectContext{Framework: "go"}
	deps := map[string]bool{}
	inRequire := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "module "):
			mod := strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "module ")), `"`)
			ctx.Name = mod[strings.LastIndex(mod, "/")+1:]
		case line == "require (":
			inRequire = true
		case inRequire && line == ")":
			inRequire = false
		case inRequire:
			if fields := strings.Fields(line); len(fields) > 0 {
				deps[fields[0]] = true
			}
		case strings.HasPrefix(line, "require "):
			if fields := strings.Fields(line); len(fields) > 1 {
				deps[fields[1]] = true
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan go.mod: %w", err)
	}
	ctx.Features = features(deps)
	if ctx.Name == "" {
		ctx.Name = filepath.Base(dir)
	}
	return ctx, nil
}

func features(deps map[string]bool) []string {
	set := map[string]bool{}
	for dep, feat := range featureDeps {
		if deps[dep] {
			set[feat] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Merge applies configured overrides to a detected context. A configured
// framework replaces the detected one; configured features are added.
func Merge(detected *model.ProjectContext, framework string, feats []string) *model.ProjectContext {
	if detected == nil && framework == "" && len(feats) == 0 {
		return nil
	}
	out := &model.ProjectContext{}
	if detected != nil {
		out.Name = detected.Name
		out.Framework = detected.Framework
		out.Features = append(out.Features, detected.Features...)
	}
	if framework != "" {
		out.Framework = strings.ToLower(framework)
	}
	for _, f := range feats {
		if !out.HasFeature(f) {
			out.Features = append(out.Features, f)
		}
	}
	return out
}
