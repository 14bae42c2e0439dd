package gosource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"linkmark/internal/logger"
	"linkmark/internal/metadata"
)

// DetectModulePath reads the go.mod file in dir and returns the module path.
func DetectModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("cannot read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("module directive not found in go.mod")
	}
	return path, nil
}

// Result is a loaded module.
type Result struct {
	Module string
	Graph  *metadata.Graph
	// Roots are main.main and the package initializers.
	Roots []metadata.ID
}

// Load analyses the Go module rooted at dir.
func Load(ctx context.Context, dir string, log logger.Logger) (*Result, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	modulePath, err := DetectModulePath(absDir)
	if err != nil {
		return nil, fmt.Errorf("cannot detect Go module: %w", err)
	}
	log.Logf("Module: %s", modulePath)
	log.Logf("Dir: %s", absDir)

	log.Logf("Loading packages (this may take a minute)...")
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
			packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedTypesSizes,
		Dir: absDir,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if n := packages.PrintErrors(pkgs); n > 0 {
		log.Logf("Warning: %d package errors (continuing anyway)", n)
	}
	log.Logf("Loaded %d packages", len(pkgs))

	collector := NewCollector(modulePath)

	log.Logf("Collecting types (structs, interfaces, functions)...")
	collector.CollectTypes(pkgs)

	log.Logf("Building SSA and call graph (VTA)...")
	collector.CollectCallGraph(pkgs)

	log.Logf("Checking interface implementations...")
	collector.CollectImplements(pkgs)

	g, err := collector.Build()
	if err != nil {
		return nil, err
	}
	log.Logf("Collected: %d assemblies, %d nodes", len(g.Assemblies()), g.Len())

	return &Result{Module: modulePath, Graph: g, Roots: collector.Roots()}, nil
}
