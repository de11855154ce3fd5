package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/flowfield/flowfield"
	"github.com/milk9111/flowfield/gridconf"
)

const exampleConfig = "../../examples/courtyard.yaml"

func TestSolveCmdPrintsLayers(t *testing.T) {
	var out bytes.Buffer
	c := SolveCmd()
	c.SetOut(&out)
	c.SetArgs([]string{"--config", exampleConfig, "--from", "9,0"})
	if err := c.Execute(); err != nil {
		t.Fatalf("solve: %v", err)
	}

	got := out.String()
	for _, want := range []string{"courtyard 10x8 -> (1,1) v1", "costs:", "best costs:", "directions:", "*", "path: (9,0)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "(1,1)\n") {
		t.Fatalf("path should end at the destination:\n%s", got)
	}
}

func TestSolveCmdRejectsBadFrom(t *testing.T) {
	c := SolveCmd()
	c.SetOut(&bytes.Buffer{})
	c.SetArgs([]string{"--config", exampleConfig, "--from", "1,2,3"})
	if err := c.Execute(); err == nil {
		t.Fatalf("expected error for a three-part --from")
	}
}

func TestSimulateCmdReportsEveryAgent(t *testing.T) {
	var out bytes.Buffer
	c := SimulateCmd()
	c.SetOut(&out)
	c.SetArgs([]string{"--config", exampleConfig, "--ticks", "50"})
	if err := c.Execute(); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if n := strings.Count(out.String(), "agent "); n != 3 {
		t.Fatalf("expected 3 agent lines, got %d:\n%s", n, out.String())
	}
}

func TestReloadScriptChangeKeepsGrid(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "grid.yaml")
	scriptPath := filepath.Join(dir, "rough.tengo")
	write := func(path, body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	write(cfgPath, "size: [3, 1]\ncell_radius: 0.5\nscript: rough.tengo\n")
	write(scriptPath, "cost := func(x, y, z, r) { return 1 }")

	ctx := context.Background()
	cfg, svc, g, err := loadAndSolve(ctx, cfgPath)
	if err != nil {
		t.Fatalf("loadAndSolve: %v", err)
	}

	write(scriptPath, "cost := func(x, y, z, r) { return x > 2 ? 6 : 1 }")
	ev := gridconf.Event{Path: scriptPath, Kind: gridconf.EventScript}
	if !cfg.Affected(ev) {
		t.Fatalf("script change should affect the config")
	}
	next, nextSvc, nextGrid, err := reload(ctx, ev, cfg, svc, g)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if nextSvc != svc || nextGrid != g || next.Path() != cfgPath {
		t.Fatalf("script change should reuse the running grid")
	}
	if cell, _ := g.Field().Cell(flowfield.Index{X: 2, Y: 0}); cell.Cost != 6 {
		t.Fatalf("cell (2,0) cost = %d after script change, want 6", cell.Cost)
	}

	// Growing the grid cannot be applied in place.
	write(cfgPath, "size: [4, 1]\ncell_radius: 0.5\nscript: rough.tengo\n")
	_, _, bigger, err := reload(ctx, gridconf.Event{Path: cfgPath, Kind: gridconf.EventConfig}, next, svc, g)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if bigger == g || bigger.Geometry().Size != (flowfield.Size{X: 4, Y: 1}) {
		t.Fatalf("resized config should build a new grid, got %+v", bigger.Geometry())
	}
	svc.Wait()
}
