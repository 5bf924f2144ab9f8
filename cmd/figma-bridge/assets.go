package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAssetsCmd() *cobra.Command {
	var (
		kind  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List files kept in local storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context(), kind, limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No stored assets.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tNODE\tSIZE\tCREATED\tURL")
			for _, a := range list {
				node := a.NodeID
				if node == "" {
					node = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					a.UUID, a.Kind, node, a.Size, a.CreatedAt.Format("2006-01-02 15:04"), a.URL)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by kind: screenshot, icon or theme")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of assets to list")

	return cmd
}
