package macros

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/macros/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the macros database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadCatalog(); err != nil {
			return err
		}
		conn, where, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.ApplyMigrations(conn); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized macros database at %s\n", where)
		return nil
	},
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List known units",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ID\tABBR\tNAME\tTYPE\tMETRIC")
		for _, u := range cat.Units() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%g\n", u.ID, u.Abbr, u.Name, u.Type, u.MetricEquivalent)
		}
		return nil
	},
}

var nutrientsCmd = &cobra.Command{
	Use:   "nutrients",
	Short: "List known nutrients and the units they accept",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tTYPES\tINBUILT")
		for _, n := range cat.Nutrients() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%t\n", n.ID, n.Name, n.Types, n.Inbuilt)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd, unitsCmd, nutrientsCmd)
}
