package cmd

import (
	"context"
	"log/slog"
	"net"

	"github.com/cleverage/tools/pkg/config"
	"github.com/cleverage/tools/pkg/deploy"
	"github.com/cleverage/tools/pkg/web"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type serveParams struct {
	fx.In

	Config *config.Config
}

// serve creates the serve command exposing the version routes and proxying
// every other request to the platform, with the version banner added to
// its pages when enabled.
//
// Command flags:
//   - --listen: Address to bind (default: web.listen from the configuration)
func serve(p serveParams) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the version routes and proxy the platform",
		Before: requireConfig(p.Config),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "listen",
				Usage:       "address to listen on",
				DefaultText: "web.listen",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			addr := p.Config.Web.Listen
			if cmd.IsSet("listen") {
				addr = cmd.String("listen")
			}

			handler, err := web.NewHandler(deploy.NewReader(p.Config.Root), p.Config.Web, p.Config.Banner)
			if err != nil {
				return err
			}

			l, err := net.Listen("tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on %s", addr)
			}

			slog.Info("Serving", "addr", l.Addr().String(), "upstream", p.Config.Web.Upstream)
			return web.Serve(ctx, l, handler)
		},
	}
}
