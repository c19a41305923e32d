package macros

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/service"
)

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Manage food nutrient profiles",
}

var (
	foodQuantity   string
	foodDensity    float64
	foodNotes      string
	foodNutrients  []string
	foodIncomplete []string
	foodPer        float64
	foodPerUnit    string
)

var foodAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a food from per-quantity nutrient values",
	Example: `  macros food add oats --quantity 100g -n energy=1580kJ -n protein=13g -n fat=7g -n carbohydrate=60g
  macros food add milk --quantity 100ml --density 1.03 -n protein=3.4g`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			profile, err := service.ParseProfile(cat, foodQuantity, foodNutrients, profileOptions()...)
			if err != nil {
				return err
			}
			if _, err := markIncomplete(cat, profile, foodIncomplete); err != nil {
				return err
			}
			id, err := service.CreateFood(conn, service.FoodInput{
				Name:       args[0],
				DensityGML: foodDensity,
				Notes:      foodNotes,
				Nutrients:  profile,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created food %d\n", id)
			return nil
		})
	},
}

var foodUpdateCmd = &cobra.Command{
	Use:   "update <id|name>",
	Short: "Set nutrient values on an existing food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			profile, err := service.ParseProfile(cat, foodQuantity, foodNutrients, profileOptions()...)
			if err != nil {
				return err
			}
			incomplete, err := markIncomplete(cat, profile, foodIncomplete)
			if err != nil {
				return err
			}
			if err := service.UpdateFoodNutrients(conn, args[0], profile, incomplete...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated food %q\n", args[0])
			return nil
		})
	},
}

var foodShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a food's nutrients, optionally per another quantity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			food, err := service.ResolveFood(conn, cat, args[0])
			if err != nil {
				return err
			}
			profile := food.Nutrients
			if foodPer > 0 || foodPerUnit != "" {
				profile, err = rescaleForDisplay(cat, food.Nutrients, food.DensityGML)
				if err != nil {
					return err
				}
			}
			display, err := service.DisplayUnits(conn, cat)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %d\nName: %s\n", food.ID, food.Name)
			if food.DensityGML > 0 {
				fmt.Fprintf(out, "Density: %s g/ml\n", formatAmount(food.DensityGML))
			}
			if food.Notes != "" {
				fmt.Fprintf(out, "Notes: %s\n", food.Notes)
			}
			if err := printProfile(out, profile, display); err != nil {
				return err
			}
			return printEnergy(out, profile, display)
		})
	},
}

func rescaleForDisplay(cat *nutrient.Catalog, profile *nutrient.Container, density float64) (*nutrient.Container, error) {
	q, _ := profile.Quantity()
	unit := q.Unit()
	if foodPerUnit != "" {
		u, ok := cat.Unit(foodPerUnit)
		if !ok {
			return nil, fmt.Errorf("unknown unit %q", foodPerUnit)
		}
		unit = u
	}
	amount := foodPer
	if amount <= 0 {
		converted, err := profile.WithQuantityUnit(unit, density)
		if err != nil {
			return nil, err
		}
		cq, _ := converted.Quantity()
		amount = cq.Amount()
	}
	return profile.PerQuantity(amount, unit, density)
}

var foodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List foods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			foods, err := service.ListFoods(conn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tDENSITY")
			for _, f := range foods {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", f.ID, f.Name, formatAmount(f.DensityGML))
			}
			return nil
		})
	},
}

var foodDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			if err := service.DeleteFood(conn, cat, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted food %q\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(foodCmd)
	foodCmd.AddCommand(foodAddCmd, foodUpdateCmd, foodShowCmd, foodListCmd, foodDeleteCmd)

	for _, c := range []*cobra.Command{foodAddCmd, foodUpdateCmd} {
		c.Flags().StringVar(&foodQuantity, "quantity", "", "Reference quantity the values are per, e.g. 100g")
		c.Flags().StringArrayVarP(&foodNutrients, "nutrient", "n", nil, "Nutrient value as name=amount, repeatable")
		c.Flags().StringSliceVar(&foodIncomplete, "incomplete", nil, "Nutrients whose values are only a lower bound")
	}
	foodAddCmd.Flags().Float64Var(&foodDensity, "density", 0, "Density in g/ml for mass/volume conversion")
	foodAddCmd.Flags().StringVar(&foodNotes, "notes", "", "Optional notes")
	_ = foodAddCmd.MarkFlagRequired("quantity")

	foodShowCmd.Flags().Float64Var(&foodPer, "per", 0, "Show values per this amount")
	foodShowCmd.Flags().StringVar(&foodPerUnit, "unit", "", "Unit for --per")
}
