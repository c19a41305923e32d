package macros

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/saadjs/macros/internal/app"
	"github.com/saadjs/macros/internal/db"
	"github.com/saadjs/macros/internal/nutrient"
	"github.com/saadjs/macros/internal/registry"
)

func withDB(run func(*db.Conn, *nutrient.Catalog) error) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	conn, _, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.ApplyMigrations(conn); err != nil {
		return err
	}
	return run(conn, cat)
}

// openDB opens the configured database and describes where it lives.
func openDB() (*db.Conn, string, error) {
	driver := viper.GetString("driver")
	if driver == db.DriverPostgres {
		dsn := viper.GetString("dsn")
		if dsn == "" {
			return nil, "", fmt.Errorf("--dsn is required for driver %s", driver)
		}
		conn, err := db.Open(driver, dsn)
		return conn, "postgres", err
	}

	path, err := resolveDBPath()
	if err != nil {
		return nil, "", err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return nil, "", err
	}
	conn, err := db.Open(driver, path)
	return conn, path, err
}

func resolveDBPath() (string, error) {
	if path := viper.GetString("db"); path != "" {
		return path, nil
	}
	return app.DefaultDBPath()
}

func loadCatalog() (*nutrient.Catalog, error) {
	path := viper.GetString("registry")
	if path == "" {
		path = app.DefaultRegistryPath()
	}
	return registry.Build(path)
}

func profileOptions() []nutrient.Option {
	return []nutrient.Option{nutrient.CompleteIfPresent(viper.GetBool("complete_if_present"))}
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// markIncomplete flags the named nutrients of c as incomplete.
func markIncomplete(cat *nutrient.Catalog, c *nutrient.Container, names []string) ([]*nutrient.Nutrient, error) {
	marked := make([]*nutrient.Nutrient, 0, len(names))
	for _, name := range names {
		n, ok := cat.Nutrient(name)
		if !ok {
			return nil, fmt.Errorf("unknown nutrient %q", name)
		}
		if err := c.SetComplete(n, false); err != nil {
			return nil, err
		}
		marked = append(marked, n)
	}
	return marked, nil
}

// printProfile writes one row per present value in its display unit. An
// asterisk marks values that are a lower bound.
func printProfile(w io.Writer, c *nutrient.Container, display map[*nutrient.Nutrient]*nutrient.Unit) error {
	fmt.Fprintln(w, "NUTRIENT\tAMOUNT\tUNIT")
	for _, v := range c.Values() {
		n := v.Nutrient()
		u := v.Unit()
		if d, ok := display[n]; ok {
			u = d
		}
		amount, err := v.ConvertTo(u)
		if err != nil {
			return err
		}
		marker := ""
		if !c.HasCompleteData(n) {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s%s\t%s\n", n.Name, formatAmount(amount), marker, u.Abbr)
	}
	return nil
}

// printEnergy writes the macronutrient energy estimate and each energetic
// nutrient's share of it.
func printEnergy(w io.Writer, c *nutrient.Container, display map[*nutrient.Nutrient]*nutrient.Unit) error {
	cat := c.Catalog()
	unit := cat.Kilojoule
	if d, ok := display[cat.Energy]; ok {
		unit = d
	}
	b := nutrient.MacroEnergy(c)
	total, err := b.TotalIn(unit)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Energy from macros: %s %s\n", formatAmount(total), unit.Abbr)
	if b.Total == 0 {
		return nil
	}
	proportions := nutrient.EnergyProportions(c)
	for _, n := range cat.EnergeticNutrients() {
		p, ok := proportions[n]
		if !ok || p == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s\t%s%%\n", n.Name, formatAmount(p*100))
	}
	return nil
}
