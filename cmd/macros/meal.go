package macros

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/service"
)

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Assemble meals from food portions",
}

var (
	mealNotes    string
	mealFoodName string
)

var mealCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, _ *nutrient.Catalog) error {
			id, err := service.CreateMeal(conn, args[0], mealNotes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created meal %d\n", id)
			return nil
		})
	},
}

var mealAddCmd = &cobra.Command{
	Use:     "add <meal> <food> <amount>",
	Short:   "Add a portion of a food to a meal",
	Example: `  macros meal add porridge oats 50g`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			amount, u, err := service.ParseAmount(cat, args[2])
			if err != nil {
				return err
			}
			id, err := service.AddMealItem(conn, cat, args[0], service.MealItemInput{
				Food:     args[1],
				Quantity: amount,
				Unit:     u.Abbr,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %d to meal %q\n", id, args[0])
			return nil
		})
	},
}

var mealRemoveCmd = &cobra.Command{
	Use:   "remove <meal> <item-id>",
	Short: "Remove an item from a meal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseInt64Arg("item id", args[1])
		if err != nil {
			return err
		}
		return withDB(func(conn *db.Conn, _ *nutrient.Catalog) error {
			if err := service.RemoveMealItem(conn, args[0], itemID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %d from meal %q\n", itemID, args[0])
			return nil
		})
	},
}

var mealShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a meal's items and nutrient totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			meal, err := service.ResolveMeal(conn, args[0])
			if err != nil {
				return err
			}
			items, err := service.ListMealItems(conn, args[0])
			if err != nil {
				return err
			}
			total, err := service.MealNutrients(conn, cat, args[0])
			if err != nil {
				return err
			}
			display, err := service.DisplayUnits(conn, cat)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %d\nName: %s\n", meal.ID, meal.Name)
			if meal.Notes != "" {
				fmt.Fprintf(out, "Notes: %s\n", meal.Notes)
			}
			fmt.Fprintln(out, "ITEM\tFOOD\tAMOUNT")
			for _, it := range items {
				fmt.Fprintf(out, "%d\t%s\t%s %s\n", it.ID, it.FoodName, formatAmount(it.Quantity), it.Unit)
			}
			if err := printProfile(out, total, display); err != nil {
				return err
			}
			return printEnergy(out, total, display)
		})
	},
}

var mealListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, _ *nutrient.Catalog) error {
			meals, err := service.ListMeals(conn)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME")
			for _, m := range meals {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", m.ID, m.Name)
			}
			return nil
		})
	},
}

var mealDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a meal and its items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, _ *nutrient.Catalog) error {
			if err := service.DeleteMeal(conn, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal %q\n", args[0])
			return nil
		})
	},
}

var mealSaveAsFoodCmd = &cobra.Command{
	Use:   "save-as-food <meal>",
	Short: "Store a meal's totals as a new food",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(conn *db.Conn, cat *nutrient.Catalog) error {
			id, err := service.SaveMealAsFood(conn, cat, args[0], mealFoodName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created food %d from meal %q\n", id, args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mealCmd)
	mealCmd.AddCommand(mealCreateCmd, mealAddCmd, mealRemoveCmd, mealShowCmd, mealListCmd, mealDeleteCmd, mealSaveAsFoodCmd)

	mealCreateCmd.Flags().StringVar(&mealNotes, "notes", "", "Optional notes")
	mealSaveAsFoodCmd.Flags().StringVar(&mealFoodName, "name", "", "Food name (defaults to the meal name)")
}
