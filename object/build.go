package object

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZenLiuCN/fn"
	"github.com/ZenLiuCN/modload"
	"github.com/hashicorp/go-hclog"
)

// UnitFile is the object unit path for (typ, keyword) under out.
func UnitFile(out, typ, keyword string) string {
	return filepath.Join(out, modload.UnitName(typ, keyword)+".o")
}

// CompileArgs are the go tool arguments compiling sources into the unit of (typ, keyword) under out.
func CompileArgs(importcfg, out, pkg, typ, keyword string, sources []string) []string {
	if pkg == "" {
		pkg = DefaultPackage
	}
	return append([]string{"tool", "compile", "-importcfg", importcfg, "-p", pkg, "-o", UnitFile(out, typ, keyword)}, sources...)
}

// Build compiles go sources into a unit file named after (typ, keyword) in out, and returns its path.
func Build(logger hclog.Logger, out, pkg, typ, keyword string, sources []string) (file string, err error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if len(sources) == 0 {
		return "", fmt.Errorf("missing target sources list")
	}
	if _, err = exec.LookPath("go"); err != nil {
		return "", fmt.Errorf("missing go sdk: %w", err)
	}
	var tmp string
	if tmp, err = os.MkdirTemp("", "modload-build"); err != nil {
		return
	}
	defer func() { _ = os.RemoveAll(tmp) }()
	cfg := filepath.Join(tmp, "importcfg")
	if err = Imports(logger, cfg, sources); err != nil {
		return "", fmt.Errorf("generate importcfg: %w", err)
	}
	cmd := exec.Command("go", CompileArgs(cfg, out, pkg, typ, keyword, sources)...)
	logger.Debug("execute", "args", cmd.Args)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err = cmd.Run(); err != nil {
		return
	}
	return UnitFile(out, typ, keyword), nil
}

// Imports generate an import config for sources at path.
func Imports(logger hclog.Logger, path string, sources []string) (err error) {
	logger.Debug("sources", "files", sources)
	cmd := exec.Command("go", append([]string{"list", "-export", "-f", "{{.Imports}}"}, sources...)...)
	logger.Debug("execute", "args", cmd.Args)
	var bout []byte
	if bout, err = cmd.Output(); err != nil {
		return fmt.Errorf("inspect imports: %w\nerr:%s\nout:%s", err, stderr(err), string(bout))
	}
	out := strings.TrimSpace(string(bout))
	if out != "" && out[0] == '[' {
		out = out[1 : len(out)-1]
	}
	deps := strings.Fields(out)
	logger.Debug("dependencies", "packages", deps)
	cmd = exec.Command("go", append([]string{"list", "-export", "-f", "{{if .Export}}packagefile {{.ImportPath}}={{.Export}}{{end}}", "std"}, deps...)...)
	logger.Debug("execute", "args", cmd.Args)
	if bout, err = cmd.Output(); err != nil {
		return fmt.Errorf("inspect dependencies: %w\nerr:%s\nout:%s", err, stderr(err), string(bout))
	}
	var cfg *os.File
	if cfg, err = os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644); err != nil {
		return
	}
	defer fn.IgnoreClose(cfg)
	_, err = cfg.Write(bout)
	return
}

func stderr(err error) string {
	if e, ok := err.(*exec.ExitError); ok {
		return string(e.Stderr)
	}
	return ""
}
