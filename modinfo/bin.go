package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ZenLiuCN/modload"
	"github.com/ZenLiuCN/modload/config"
	"github.com/ZenLiuCN/modload/native"
	"github.com/ZenLiuCN/modload/object"
	"github.com/hashicorp/go-hclog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Usage = "toolchain module inspector"
	app.Name = "modinfo"
	app.Description = "list, resolve and build the loadable units of toolchain components"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "yaml config file"},
		&cli.StringSliceFlag{Name: "path", Aliases: []string{"p"}, Usage: "unit search directory, repeatable"},
		&cli.StringFlag{Name: "backend", Aliases: []string{"b"}, Usage: "native or object"},
	}
	app.Commands = []*cli.Command{
		{
			Name:      "list",
			Action:    list,
			Usage:     "list available components, of all types or the given types",
			ArgsUsage: "[type...]",
		},
		{
			Name:      "symbol",
			Action:    symbol,
			Usage:     "resolve the address of a symbol exported by a unit",
			ArgsUsage: "TYPE KEYWORD SYMBOL",
		},
		{
			Name:      "names",
			Action:    names,
			Usage:     "display the unit name and exported symbol name of a component",
			ArgsUsage: "TYPE KEYWORD [SYMBOL]",
		},
		{
			Name:      "scan",
			Action:    scan,
			Usage:     "display units installed on the search path, of all types or the given types",
			ArgsUsage: "[type...]",
		},
		{
			Name:   "inspect",
			Action: inspect,
			Usage:  "display symbols of object units",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "pkg", Aliases: []string{"k"}, Usage: "package path or default main"},
			},
			ArgsUsage: "FILE...",
		},
		{
			Name:      "missing",
			Action:    missing,
			Usage:     "display symbols of object units which the host can't resolve",
			ArgsUsage: "FILE...",
		},
		{
			Name:   "build",
			Action: build,
			Usage:  "compile go sources into the object unit of a component",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "output directory"},
				&cli.StringFlag{Name: "pkg", Aliases: []string{"k"}, Usage: "package path or default main"},
			},
			ArgsUsage: "TYPE KEYWORD SOURCES...",
		},
	}
	return app
}

func settings(ctx *cli.Context) (cfg *config.Config, logger hclog.Logger, err error) {
	if cfg, err = config.Load(ctx.String("config")); err != nil {
		return
	}
	if ctx.IsSet("backend") {
		cfg.Backend = ctx.String("backend")
		if err = cfg.Validate(); err != nil {
			return
		}
	}
	if ctx.IsSet("path") {
		cfg.SearchPath = append(ctx.StringSlice("path"), cfg.SearchPath...)
	}
	if ctx.Bool("debug") {
		cfg.Debug = true
	}
	level := hclog.Info
	if cfg.Debug {
		level = hclog.Debug
	}
	logger = hclog.New(&hclog.LoggerOptions{Name: "modinfo", Level: level, Output: ctx.App.ErrWriter})
	return
}

// loader returns the configured backend and its unit extensions.
func loader(cfg *config.Config, logger hclog.Logger) (l modload.Loader, exts []string, err error) {
	switch cfg.Backend {
	case config.Object:
		var d modload.Descriptor
		l, err = object.New(logger.Named("object"), cfg.Package, cfg.SearchPath, &d)
		return l, object.Extensions(), err
	default:
		return native.New(logger.Named("native"), cfg.SearchPath...), native.Extensions(), nil
	}
}

func registry(ctx *cli.Context) (r *modload.Registry, cfg *config.Config, err error) {
	var logger hclog.Logger
	if cfg, logger, err = settings(ctx); err != nil {
		return
	}
	var l modload.Loader
	if l, _, err = loader(cfg, logger); err != nil {
		return
	}
	return modload.New(l, modload.WithLogger(logger.Named("registry"))), cfg, nil
}

func types(ctx *cli.Context) (v []string, err error) {
	if ctx.NArg() == 0 {
		return modload.Types(), nil
	}
	for _, t := range ctx.Args().Slice() {
		if modload.Catalog(t) == nil {
			return nil, fmt.Errorf("unknown component type %q", t)
		}
		v = append(v, t)
	}
	return
}

func list(ctx *cli.Context) (err error) {
	var ts []string
	if ts, err = types(ctx); err != nil {
		return
	}
	var r *modload.Registry
	if r, _, err = registry(ctx); err != nil {
		return
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()
	for _, t := range ts {
		_, _ = fmt.Fprintf(ctx.App.Writer, "Available %s:\n", t)
		r.List(t, func(name, keyword string) {
			_, _ = fmt.Fprintf(ctx.App.Writer, "%4s%-12s%s\n", "", keyword, name)
		})
	}
	return
}

func symbol(ctx *cli.Context) (err error) {
	if ctx.NArg() != 3 {
		return fmt.Errorf("required arguments TYPE KEYWORD SYMBOL")
	}
	a := ctx.Args()
	var r *modload.Registry
	if r, _, err = registry(ctx); err != nil {
		return
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if _, ok := r.Load(a.Get(0), a.Get(1)); !ok {
		return fmt.Errorf("%w: %s", modload.ErrMissingModule, modload.UnitName(a.Get(0), a.Get(1)))
	}
	p, ok := r.SymbolData(a.Get(0), a.Get(1), a.Get(2))
	if !ok {
		return fmt.Errorf("%w: %s", modload.ErrMissingSymbol, modload.SymbolName(a.Get(1), a.Get(2)))
	}
	_, _ = fmt.Fprintf(ctx.App.Writer, "%s %#x\n", modload.SymbolName(a.Get(1), a.Get(2)), uintptr(p))
	return
}

func names(ctx *cli.Context) error {
	if n := ctx.NArg(); n < 2 || n > 3 {
		return fmt.Errorf("required arguments TYPE KEYWORD [SYMBOL]")
	}
	a := ctx.Args()
	sym := a.Get(2)
	if sym == "" {
		sym = a.Get(0)
	}
	_, _ = fmt.Fprintf(ctx.App.Writer, "unit   %s\nsymbol %s\n", modload.UnitName(a.Get(0), a.Get(1)), modload.SymbolName(a.Get(1), sym))
	return nil
}

func scan(ctx *cli.Context) (err error) {
	var ts []string
	if ts, err = types(ctx); err != nil {
		return
	}
	cfg, logger, err := settings(ctx)
	if err != nil {
		return
	}
	l, exts, err := loader(cfg, logger)
	if err != nil {
		return
	}
	dirs := cfg.SearchPath
	if n, ok := l.(*native.Loader); ok {
		dirs = n.Dirs()
	}
	for _, t := range ts {
		var found []string
		if found, err = modload.Discover(dirs, t, exts); err != nil {
			return
		}
		_, _ = fmt.Fprintf(ctx.App.Writer, "Installed %s:\n", t)
		for _, k := range found {
			_, _ = fmt.Fprintf(ctx.App.Writer, "%4s%s\n", "", k)
		}
	}
	return
}

func inspect(ctx *cli.Context) (err error) {
	for _, s := range ctx.Args().Slice() {
		var v []string
		if v, err = object.Inspect(s, ctx.String("pkg")); err != nil {
			return
		}
		_, _ = fmt.Fprintf(ctx.App.Writer, "%s:\n", s)
		for _, sym := range v {
			_, _ = fmt.Fprintf(ctx.App.Writer, "\t%s\n", sym)
		}
	}
	return
}

func missing(ctx *cli.Context) (err error) {
	cfg, logger, err := settings(ctx)
	if err != nil {
		return
	}
	var d modload.Descriptor
	l, err := object.New(logger.Named("object"), cfg.Package, cfg.SearchPath, &d)
	if err != nil {
		return
	}
	for _, s := range ctx.Args().Slice() {
		var v []string
		if v, err = l.Missing(s); err != nil {
			return
		}
		_, _ = fmt.Fprintf(ctx.App.Writer, "%s:\n", s)
		for _, sym := range v {
			_, _ = fmt.Fprintf(ctx.App.Writer, "\t%s\n", sym)
		}
	}
	return
}

func build(ctx *cli.Context) (err error) {
	if ctx.NArg() < 3 {
		return fmt.Errorf("required arguments TYPE KEYWORD SOURCES...")
	}
	_, logger, err := settings(ctx)
	if err != nil {
		return
	}
	a := ctx.Args().Slice()
	var file string
	if file, err = object.Build(logger, ctx.String("out"), ctx.String("pkg"), a[0], a[1], a[2:]); err != nil {
		return
	}
	logger.Info("built unit", "file", file)
	return
}
