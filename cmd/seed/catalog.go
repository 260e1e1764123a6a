package main

import (
	"fmt"
	"math/rand"
	"strings"

	"ai-shopsearch-be/internal/entity"
)

// Demo fashion catalog. Deterministic so re-running the seeder produces the
// same external ids and the existence check can skip them.
var (
	categorySizes = map[string][]string{
		"Shirts":   {"XS", "S", "M", "L", "XL"},
		"Broeken":  {"XS", "S", "M", "L", "XL"},
		"Jassen":   {"S", "M", "L", "XL"},
		"Schoenen": {"36", "37", "38", "39", "40", "41", "42", "43", "44"},
		"Truien":   {"S", "M", "L", "XL"},
	}
	categoryOrder = []string{"Shirts", "Broeken", "Jassen", "Schoenen", "Truien"}

	colors    = []string{"Zwart", "Wit", "Blauw", "Groen", "Geel", "Rood", "Paars", "Grijs", "Beige"}
	materials = []string{"Katoen", "Wol", "Linnen", "Leer", "Polyester"}
	brands    = []string{"StyleHub", "UrbanWear", "Fashionista", "Trendify", "ClassicLine"}

	leadSentences = []string{
		"Tijdloos design voor elke garderobe.",
		"Comfortabel en stijlvol voor dagelijks gebruik.",
		"Een klassieker die nooit verveelt.",
		"Perfect voor zowel casual als formele gelegenheden.",
		"Duurzaam geproduceerd met oog voor detail.",
	}
)

// BuildCatalog generates count demo products with NL-flavored titles and
// descriptions. Embeddings are filled in by the caller.
func BuildCatalog(count int) []*entity.Product {
	rng := rand.New(rand.NewSource(42))

	products := make([]*entity.Product, 0, count)
	for i := 0; i < count; i++ {
		category := categoryOrder[rng.Intn(len(categoryOrder))]
		size := categorySizes[category][rng.Intn(len(categorySizes[category]))]
		color := colors[rng.Intn(len(colors))]
		material := materials[rng.Intn(len(materials))]
		brand := brands[rng.Intn(len(brands))]
		price := float64(int((20+rng.Float64()*230)*100)) / 100

		products = append(products, &entity.Product{
			ExternalId:  fmt.Sprintf("%s-%04d-%s", category[:3], i, size),
			Title:       fmt.Sprintf("%s %s (%s, %s)", category, brand, color, size),
			Description: fmt.Sprintf("%s Gemaakt van %s in de kleur %s.", leadSentences[rng.Intn(len(leadSentences))], strings.ToLower(material), strings.ToLower(color)),
			Price:       price,
			Category:    category,
			Tags:        []string{category, color, material, brand},
		})
	}
	return products
}
