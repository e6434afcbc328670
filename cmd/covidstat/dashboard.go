package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"covidstat/internal/dashboard"
)

func newDashboardCmd(configPath *string) *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the interactive web dashboard",
		Long: `Serve a web page with a country input, the latest rows, an inline chart and a
CSV download. Each page load performs one fetch; nothing is cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			gin.SetMode(gin.ReleaseMode)
			srv, err := dashboard.NewServer(a.collector, a.cfg.Dashboard.DefaultCountry, a.cfg.Dashboard.PreviewRows, a.logger)
			if err != nil {
				return err
			}
			addr := a.cfg.Dashboard.Addr
			if flagAddr != "" {
				addr = flagAddr
			}
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config, :8501)")
	return cmd
}
