package main

import (
	"Orbit/config"
	"Orbit/middleware"
	"Orbit/models"
	"Orbit/pkg/database"
	"Orbit/pkg/jwt"
	"Orbit/pkg/log"
	"Orbit/pkg/server"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	defer log.Sync()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	var cfg *config.Config
	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "points ledger api",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file path",
				Value: fmt.Sprintf("configs/config.%s.yaml", env),
			},
		},
		Before: func(ctx *cli.Context) error {
			cfg = config.New(ctx.String("config"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					app, cleanup, err := InitServer(cfg)
					if err != nil {
						return err
					}
					defer cleanup()
					return server.Run(ctx, app)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update tables",
				Action: func(ctx *cli.Context) error {
					db, cleanup, err := database.NewDB(cfg)
					if err != nil {
						return err
					}
					defer cleanup()
					if err := db.WithContext(ctx.Context).AutoMigrate(models.All()...); err != nil {
						return err
					}
					log.L.Info("migrate finished", zap.Int("tables", len(models.All())))
					return nil
				},
			},
			{
				Name:  "reconcile",
				Usage: "check user balances against ledger records",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{Name: "uid", Usage: "only check these users"},
				},
				Action: func(ctx *cli.Context) error {
					svc, cleanup, err := InitReconcile(cfg)
					if err != nil {
						return err
					}
					defer cleanup()

					var ids []uint64
					for _, id := range ctx.Int64Slice("uid") {
						ids = append(ids, uint64(id))
					}
					if len(ids) == 0 {
						issues, err := svc.ReconcileAll(ctx.Context)
						if err != nil {
							return err
						}
						return printJSON(issues)
					}
					issues, err := svc.ReconcileUsers(ctx.Context, ids)
					if err != nil {
						return err
					}
					return printJSON(issues)
				},
			},
			{
				Name:  "token",
				Usage: "issue an access token for local debugging",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "uid", Required: true},
					&cli.StringSliceFlag{Name: "role"},
					&cli.DurationFlag{Name: "expire", Value: 24 * time.Hour},
				},
				Action: func(ctx *cli.Context) error {
					token, err := jwt.GenerateToken([]byte(cfg.Jwt.Secret), ctx.Uint64("uid"),
						ctx.StringSlice("role"), middleware.TokenTypeAccess, ctx.Duration("expire"))
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("api-server exited", zap.Error(err))
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
