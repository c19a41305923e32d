package nutrient

// Mass constants follow the ingredient conversion table (base = g); volume
// constants use US customary measures (base = ml).
var builtinUnits = []Unit{
	{ID: 1, Name: "grams", Abbr: "g", MetricEquivalent: 1, Type: Mass},
	{ID: 2, Name: "milligrams", Abbr: "mg", MetricEquivalent: 0.001, Type: Mass},
	{ID: 3, Name: "micrograms", Abbr: "ug", MetricEquivalent: 0.000001, Type: Mass},
	{ID: 4, Name: "kilograms", Abbr: "kg", MetricEquivalent: 1000, Type: Mass},
	{ID: 5, Name: "ounces", Abbr: "oz", MetricEquivalent: 28.349523125, Type: Mass},
	{ID: 6, Name: "pounds", Abbr: "lb", MetricEquivalent: 453.59237, Type: Mass},

	{ID: 10, Name: "millilitres", Abbr: "ml", MetricEquivalent: 1, Type: Volume},
	{ID: 11, Name: "litres", Abbr: "l", MetricEquivalent: 1000, Type: Volume},
	{ID: 12, Name: "teaspoons", Abbr: "tsp", MetricEquivalent: 4.92892159375, Type: Volume},
	{ID: 13, Name: "tablespoons", Abbr: "tbsp", MetricEquivalent: 14.78676478125, Type: Volume},
	{ID: 14, Name: "cups", Abbr: "cup", MetricEquivalent: 236.5882365, Type: Volume},
	{ID: 15, Name: "fluid ounces", Abbr: "fl-oz", MetricEquivalent: 29.5735295625, Type: Volume},

	{ID: 20, Name: "kilojoules", Abbr: "kJ", MetricEquivalent: 1, Type: Energy},
	{ID: 21, Name: "kilocalories", Abbr: "kcal", MetricEquivalent: 4.184, Type: Energy},

	{ID: 30, Name: "grams per millilitre", Abbr: "g/ml", MetricEquivalent: 1, Type: Density},
}

// Names of the inbuilt nutrients. Registration order fixes their indices, so
// new names are only ever appended.
const (
	NameQuantity           = "quantity"
	NameEnergy             = "energy"
	NameProtein            = "protein"
	NameFat                = "fat"
	NameSaturatedFat       = "saturated_fat"
	NameMonounsaturatedFat = "monounsaturated_fat"
	NamePolyunsaturatedFat = "polyunsaturated_fat"
	NameOmega3             = "omega_3_fat"
	NameOmega6             = "omega_6_fat"
	NameTransFat           = "trans_fat"
	NameCholesterol        = "cholesterol"
	NameCarbohydrate       = "carbohydrate"
	NameCarbohydrateByDiff = "carbohydrate_by_diff"
	NameSugar              = "sugar"
	NameStarch             = "starch"
	NameFibre              = "fibre"
	NameAlcohol            = "alcohol"
	NameWater              = "water"
	NameSodium             = "sodium"
	NamePotassium          = "potassium"
	NameCalcium            = "calcium"
	NameIron               = "iron"
	NameCaffeine           = "caffeine"
)

type nutrientDef struct {
	name  string
	types UnitTypes
}

var builtinNutrients = []nutrientDef{
	{NameQuantity, TypesOf(Mass, Volume)},
	{NameEnergy, TypesOf(Energy)},
	{NameProtein, TypesOf(Mass)},
	{NameFat, TypesOf(Mass)},
	{NameSaturatedFat, TypesOf(Mass)},
	{NameMonounsaturatedFat, TypesOf(Mass)},
	{NamePolyunsaturatedFat, TypesOf(Mass)},
	{NameOmega3, TypesOf(Mass)},
	{NameOmega6, TypesOf(Mass)},
	{NameTransFat, TypesOf(Mass)},
	{NameCholesterol, TypesOf(Mass)},
	{NameCarbohydrate, TypesOf(Mass)},
	{NameCarbohydrateByDiff, TypesOf(Mass)},
	{NameSugar, TypesOf(Mass)},
	{NameStarch, TypesOf(Mass)},
	{NameFibre, TypesOf(Mass)},
	{NameAlcohol, TypesOf(Mass)},
	{NameWater, TypesOf(Mass)},
	{NameSodium, TypesOf(Mass)},
	{NamePotassium, TypesOf(Mass)},
	{NameCalcium, TypesOf(Mass)},
	{NameIron, TypesOf(Mass)},
	{NameCaffeine, TypesOf(Mass)},
}
