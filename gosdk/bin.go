// Command gosdk patches the go sdk so the object backend can be built.
//
// goloader compiles against a copy of $GOROOT/src/cmd/internal at $GOROOT/src/cmd/objfile.
// Run `gosdk prepare` once before building anything importing the object backend
// (modinfo included) and `gosdk clean` to restore the sdk.
//
// This command must not import the object backend itself.
package main

import (
	"log"
	"os"

	"github.com/ZenLiuCN/modload"
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
	app.Usage = "go sdk patcher"
	app.Name = "gosdk"
	app.Description = "copy or remove the go sdk internals which object units are linked with"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}},
		&cli.StringFlag{Name: "goroot", Aliases: []string{"r"}, Usage: "go sdk root, default $GOROOT or go env GOROOT"},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "prepare",
			Action: prepare,
			Usage:  "copy internals of go sdk",
		},
		{
			Name:   "clean",
			Action: clean,
			Usage:  "remove copied internals of go sdk",
		},
		{
			Name:   "status",
			Action: status,
			Usage:  "display whether the go sdk is prepared",
		},
	}
	return app
}

func sdk(ctx *cli.Context) (src, dst string, logger hclog.Logger, err error) {
	level := hclog.Info
	if ctx.Bool("debug") {
		level = hclog.Debug
	}
	logger = hclog.New(&hclog.LoggerOptions{Name: "gosdk", Level: level, Output: ctx.App.ErrWriter})
	root := ctx.String("goroot")
	if root == "" {
		if root, err = modload.GoRoot(); err != nil {
			return
		}
	}
	src, dst = modload.SDKPatch(root)
	return
}

func prepare(ctx *cli.Context) (err error) {
	src, dst, logger, err := sdk(ctx)
	if err != nil {
		return
	}
	logger.Debug("prepare go sdk", "from", src, "to", dst)
	if _, err = os.Stat(dst); err == nil {
		logger.Debug("did nothing", "dir", dst)
		return
	} else if !os.IsNotExist(err) {
		return
	}
	if err = modload.CopyDir(src, dst, nil); err != nil {
		return
	}
	logger.Info("copied", "dir", dst, "from", src)
	return
}

func clean(ctx *cli.Context) (err error) {
	_, dst, logger, err := sdk(ctx)
	if err != nil {
		return
	}
	if _, err = os.Stat(dst); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("did nothing", "dir", dst)
			return nil
		}
		return
	}
	if err = os.RemoveAll(dst); err != nil {
		return
	}
	logger.Info("removed", "dir", dst)
	return
}

func status(ctx *cli.Context) (err error) {
	_, dst, _, err := sdk(ctx)
	if err != nil {
		return
	}
	state := "prepared"
	if _, err = os.Stat(dst); os.IsNotExist(err) {
		state = "not prepared"
	} else if err != nil {
		return
	}
	_, err = ctx.App.Writer.Write([]byte(state + " " + dst + "\n"))
	return
}
