package system

import (
	"context"

	"github.com/julianstephens/trackfit/internal/cli"
	"github.com/julianstephens/trackfit/internal/constants"
	"github.com/julianstephens/trackfit/internal/notifier"
)

// NotifyCmd sends one notification to the tray helper. Used to test the
// tray setup.
type NotifyCmd struct {
	Text string `arg:"" help:"Notification text."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	nctx, cancel := context.WithTimeout(context.Background(), constants.DefaultHTTPTimeout)
	defer cancel()
	if err := notifier.New().Notify(nctx, c.Text); err != nil {
		return err
	}
	ctx.Println("✓ Notification sent")
	return nil
}
