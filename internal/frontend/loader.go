// Package frontend loads the program under transformation and is the only
// place the pass talks to the Go toolchain. The rest of the compiler sees
// function declarations, typed expressions and compile-time constants through
// the helpers in this package, never raw loader state.
package frontend

import (
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	gopackages "golang.org/x/tools/go/packages"

	"github.com/lutherstrike/tapa/internal/diag"
)

// LoadConfig configures how source files are loaded before the pass runs.
type LoadConfig struct {
	Sources   []string
	BuildTags []string
}

// Unit is one source file together with its package context.
type Unit struct {
	Pkg  *gopackages.Package
	File *ast.File
	Path string
}

// Program is the loaded, type-checked input of the pass.
type Program struct {
	Fset *token.FileSet
	Pkgs []*gopackages.Package
}

// LoadPackages loads and type-checks the requested source files. Load errors
// are reported through the reporter and fail the load.
func LoadPackages(cfg LoadConfig, reporter *diag.Reporter) (*Program, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no source files were provided")
	}

	fset := token.NewFileSet()

	dir := workingDir(cfg.Sources[0])
	if dir != "" {
		if absDir, err := filepath.Abs(dir); err == nil {
			dir = absDir
		}
	}

	loadCfg := &gopackages.Config{
		Mode: gopackages.NeedName | gopackages.NeedSyntax | gopackages.NeedFiles |
			gopackages.NeedCompiledGoFiles | gopackages.NeedTypes | gopackages.NeedTypesInfo |
			gopackages.NeedImports | gopackages.NeedDeps | gopackages.NeedModule,
		Fset:  fset,
		Tests: false,
	}
	if dir != "" {
		loadCfg.Dir = dir
	}
	if flags := buildTagFlag(cfg.BuildTags); len(flags) > 0 {
		loadCfg.BuildFlags = flags
	}

	pkgs, err := gopackages.Load(loadCfg, ".")
	if err != nil {
		return nil, err
	}

	reporter.SetFileSet(fset)

	var hadErrors bool
	for _, pkg := range pkgs {
		for _, loadErr := range pkg.Errors {
			reporter.Errorf("%s: %s", loadErr.Pos, loadErr.Msg)
			hadErrors = true
		}
	}
	if hadErrors {
		return nil, fmt.Errorf("package loading failed")
	}

	return &Program{Fset: fset, Pkgs: pkgs}, nil
}

// Units returns every syntax file of the loaded program, in load order.
func (p *Program) Units() []Unit {
	var units []Unit
	for _, pkg := range p.Pkgs {
		if pkg == nil {
			continue
		}
		for _, file := range pkg.Syntax {
			if file == nil {
				continue
			}
			units = append(units, Unit{
				Pkg:  pkg,
				File: file,
				Path: p.Fset.Position(file.Pos()).Filename,
			})
		}
	}
	return units
}

// SourceOf reads the original text of the file containing pos.
func (p *Program) SourceOf(pos token.Pos) (string, []byte, error) {
	if !pos.IsValid() {
		return "", nil, fmt.Errorf("no source position available")
	}
	path := p.Fset.Position(pos).Filename
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read source %s: %w", path, err)
	}
	return path, data, nil
}

func buildTagFlag(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	joined := strings.Join(tags, ",")
	if joined == "" {
		return nil
	}
	return []string{"-tags=" + joined}
}

func workingDir(sample string) string {
	if sample == "" {
		return ""
	}
	if info, err := os.Stat(sample); err == nil && info.IsDir() {
		return sample
	}
	dir := filepath.Dir(sample)
	if dir == "." {
		return ""
	}
	return dir
}
