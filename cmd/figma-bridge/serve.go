package main

import (
	"os"

	figmabridge "github.com/kataras/figma-bridge"
	"github.com/kataras/figma-bridge/internal/server"
	"github.com/kataras/figma-bridge/pkg/figma"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger := cfg.Log.NewLogger(os.Stderr)
			if logger.IsLevelEnabled(logrus.DebugLevel) {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := figmabridge.New(nil, store, logger)
			if cfg.Figma.Token != "" {
				svc.API = newClient(cfg, cfg.Figma.Token)
			} else {
				logger.Warn("No server Figma token configured; requests must carry X-Figma-Token or a bearer token")
			}

			var oauth *figma.OAuthConfig
			if cfg.Figma.OAuthEnabled() {
				redirect := cfg.Figma.RedirectURL
				if redirect == "" {
					redirect = cfg.Server.PublicURL + "/api/auth/figma/callback"
				}
				oauth, err = figma.NewOAuthConfig(cfg.Figma.ClientID, cfg.Figma.ClientSecret, redirect, nil, figma.Endpoint)
				if err != nil {
					return err
				}
			}

			srv := server.New(server.Options{
				Config:  cfg,
				Service: svc,
				Store:   store,
				Logger:  logger,
				OAuth:   oauth,
				NewAPI: func(token string, bearer bool) figmabridge.API {
					if bearer {
						return newClient(cfg, token, figma.WithBearer())
					}
					return newClient(cfg, token)
				},
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from server.addr)")

	return cmd
}
