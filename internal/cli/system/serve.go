package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/trackfit/internal/api"
	"github.com/julianstephens/trackfit/internal/cli"
)

type ServeCmd struct {
	Listen string `help:"Address to listen on. Defaults to the config's api.listen."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Engine()
	if err != nil {
		return err
	}
	addr := c.Listen
	if addr == "" {
		addr = ctx.Config.API.Listen
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Serving on http://%s (Ctrl+C to stop)\n", addr)
	return api.NewServer(e).Serve(sigCtx, addr)
}
