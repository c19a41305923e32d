package macros

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage nutrient goals",
}

var (
	goalNutrients []string
	goalMeals     []string
	goalTolerance float64
)

var goalSetCmd = &cobra.Command{
	Use:     "set <name>",
	Short:   "Create or replace a goal",
	Example: `  macros goal set daily -n energy=2000kcal -n protein=150g -n fibre=30g`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			targets, err := service.ParseProfile(cat, "", goalNutrients)
			if err != nil {
				return err
			}
			id, err := service.SetGoal(conn, args[0], targets)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved goal %d\n", id)
			return nil
		})
	},
}

var goalShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a goal's targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			goal, err := service.ResolveGoal(conn, cat, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ID: %d\nName: %s\n", goal.ID, goal.Name)
			return printProfile(cmd.OutOrStdout(), goal.Targets, nil)
		})
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <goal>",
	Short: "Compare the totals of one or more meals against a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(goalMeals) == 0 {
			return fmt.Errorf("at least one --meal is required")
		}
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			goal, err := service.ResolveGoal(conn, cat, args[0])
			if err != nil {
				return err
			}
			intake, err := mealsTotal(conn, cat, goalMeals)
			if err != nil {
				return err
			}
			rows, err := service.GoalProgress(goal, intake)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "NUTRIENT\tACTUAL\tTARGET\tUNIT\tPERCENT\tSTATUS")
			for _, p := range rows {
				actual := formatAmount(p.Actual)
				switch {
				case !p.HasActual:
					actual = "-"
				case p.Estimated:
					actual = "~" + actual
				case !p.Complete:
					actual += "*"
				}
				status := "off"
				if service.AdherenceWithin(p.Actual, p.Target, goalTolerance) {
					status = "ok"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s%%\t%s\n", p.Nutrient.Name, actual, formatAmount(p.Target), p.Unit.Abbr, formatAmount(p.Fraction*100), status)
			}
			return nil
		})
	},
}

// mealsTotal sums the named meals. Quantities are dropped first because
// meals may be measured in different units.
func mealsTotal(conn *db.Conn, cat *nutrient.Catalog, meals []string) (*nutrient.Container, error) {
	parts := make([]*nutrient.Container, 0, len(meals))
	for _, name := range meals {
		total, err := service.MealNutrients(conn, cat, name)
		if err != nil {
			return nil, err
		}
		part := total.Copy()
		if err := part.Clear(cat.Quantity); err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	return nutrient.Sum(cat, parts...)
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalSetCmd, goalShowCmd, goalProgressCmd)

	goalSetCmd.Flags().StringArrayVarP(&goalNutrients, "nutrient", "n", nil, "Target as name=amount, repeatable")
	goalProgressCmd.Flags().StringArrayVar(&goalMeals, "meal", nil, "Meal eaten, repeatable")
	goalProgressCmd.Flags().Float64Var(&goalTolerance, "tolerance", 0.1, "Fraction of the target counted as on track")
}
