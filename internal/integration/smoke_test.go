//go:build integration

package integration

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// TestSmokeHelp verifies the binary runs and prints help.
func TestSmokeHelp(t *testing.T) {
	e := newEnv(t)
	stdout, _ := e.mustRun("--help")
	if !strings.Contains(stdout, "domain:action") {
		t.Errorf("expected help to mention domain:action, got:\n%s", stdout)
	}
}

// TestSmokeVersion verifies the version command names the binary.
func TestSmokeVersion(t *testing.T) {
	e := newEnv(t)
	stdout, _ := e.mustRun("version")
	if !strings.HasPrefix(stdout, "xaheen ") {
		t.Errorf("unexpected version output: %q", stdout)
	}
}

// TestSmokeRunAndUsage dispatches a command and reads it back from usage.
func TestSmokeRunAndUsage(t *testing.T) {
	e := newEnv(t)

	stdout, _ := e.mustRun("make:model", "User", "--field", "name:string", "-m")
	if !strings.Contains(stdout, "plan: make:model User") {
		t.Errorf("expected plan, got:\n%s", stdout)
	}
	if _, err := os.Stat(e.dbPath); err != nil {
		t.Fatalf("database not created at default path: %v", err)
	}

	stdout, _ = e.mustRun("usage", "--json")
	var stats []struct {
		Command string `json:"command"`
		Count   int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(stdout), &stats); err != nil {
		t.Fatalf("parse usage JSON: %v\n%s", err, stdout)
	}
	if len(stats) != 1 || stats[0].Command != "make:model" || stats[0].Count != 1 {
		t.Errorf("unexpected usage: %+v", stats)
	}
}

// TestSmokeLegacyCommands verifies commands from other tools resolve.
func TestSmokeLegacyCommands(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"ng", "g", "c", "Button"}, "plan: make:component Button"},
		{[]string{"php", "artisan", "make:model", "Post"}, "plan: make:model Post"},
		{[]string{"helm", "create", "api"}, "plan: helm:chart api"},
		{[]string{"mc", "Card"}, "plan: make:component Card"},
	}
	for _, tt := range tests {
		stdout, _ := e.mustRun(tt.args...)
		if !strings.Contains(stdout, tt.want) {
			t.Errorf("xaheen %v: expected %q, got:\n%s", tt.args, tt.want, stdout)
		}
	}
}

// TestSmokeUsageBoost verifies usage history persists across invocations and
// lifts a command in the rankings.
func TestSmokeUsageBoost(t *testing.T) {
	e := newEnv(t)

	for i := 0; i < 5; i++ {
		e.mustRun("make:controller", "C")
	}
	stdout, _ := e.mustRun("suggest", "--json", "make:co")
	var result struct {
		Suggestions []struct {
			Command string `json:"command"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("parse suggest JSON: %v\n%s", err, stdout)
	}
	if len(result.Suggestions) == 0 || result.Suggestions[0].Command != "make:controller" {
		t.Errorf("expected make:controller first after repeated use, got %+v", result.Suggestions)
	}
}

// TestSmokeProjectDetection verifies the detected framework shapes next.
func TestSmokeProjectDetection(t *testing.T) {
	e := newEnv(t)

	e.writeFile("app/composer.json", `{"require": {"laravel/framework": "^11.0"}}`)
	stdout, _, err := e.runIn(e.home+"/app", "next", "--json")
	if err != nil {
		t.Fatalf("next failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "make:model") {
		t.Errorf("expected laravel suggestions, got:\n%s", stdout)
	}
}
