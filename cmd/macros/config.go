package macros

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage per-database settings such as display units",
}

var configSetCmd = &cobra.Command{
	Use:     "set <key> <value>",
	Short:   "Set a configuration value",
	Example: `  macros config set display_unit.sodium mg`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			key, value := args[0], args[1]
			if name, ok := strings.CutPrefix(strings.ToLower(key), service.DisplayUnitPrefix); ok {
				if err := service.SetDisplayUnit(conn, cat, name, value); err != nil {
					return err
				}
			} else if err := service.SetConfig(conn, key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, _ *nutrient.Catalog) error {
			if len(args) == 1 {
				value, ok, err := service.GetConfig(conn, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("config %q is not set", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}
			cfg, err := service.ListConfig(conn)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(cfg))
			for k := range cfg {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE")
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, cfg[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)
}
