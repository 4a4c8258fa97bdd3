package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	gql "github.com/petpalace/petpalace/app/graphql"
	"github.com/petpalace/petpalace/app/routes"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/pkg/router"
	"github.com/petpalace/petpalace/pkg/ws"
)

var routesCmd = &cobra.Command{
	Use:   "route:list",
	Short: "Print every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := gql.NewSchema(services.NewCatalogService())
		if err != nil {
			return err
		}

		r := router.New()
		routes.RegisterAPI(r, ws.NewHub(), schema)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		for _, route := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", route.Method, route.Path, route.Name)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
