package store

import "github.com/agrolocal/farmstand/internal/models"

// seedProducts is the built-in catalog used on first run, before any
// snapshot exists.
func seedProducts() []models.Product {
	return []models.Product{
		{
			ID:             "1",
			Name:           "Organic Potatoes",
			Price:          13000,
			Image:          "https://images.unsplash.com/photo-1518977676601-b53f82aba655",
			Category:       models.CategoryTubers,
			Seller:         "Sunrise Farm",
			Description:    "Fresh organic potatoes grown without pesticides",
			AvailableKilos: 100,
		},
		{
			ID:             "2",
			Name:           "Fresh Tomatoes",
			Price:          3000,
			Image:          "https://images.unsplash.com/photo-1592924357228-91a4daadcfea",
			Category:       models.CategoryVegetables,
			Seller:         "Don Jose's Garden",
			Description:    "Fresh, juicy locally grown tomatoes",
			AvailableKilos: 80,
		},
		{
			ID:             "3",
			Name:           "Hass Avocados",
			Price:          6300,
			Image:          "https://images.unsplash.com/photo-1523049673857-eb18f1d7b578",
			Category:       models.CategoryFruits,
			Seller:         "Avocado Grove Estate",
			Description:    "Ripe Hass avocados, ready to eat",
			AvailableKilos: 150,
		},
		{
			ID:             "4",
			Name:           "Organic Carrots",
			Price:          4500,
			Image:          "https://images.unsplash.com/photo-1598170845058-32b9d6a5da37",
			Category:       models.CategoryVegetables,
			Seller:         "Organic Valley Farm",
			Description:    "Organic carrots grown without chemicals",
			AvailableKilos: 120,
		},
		{
			ID:             "5",
			Name:           "Red Apples",
			Price:          5000,
			Image:          "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6",
			Category:       models.CategoryFruits,
			Seller:         "Family Orchard",
			Description:    "Sweet and juicy red apples",
			AvailableKilos: 200,
		},
		{
			ID:             "6",
			Name:           "Onions",
			Price:          7000,
			Image:          "https://images.unsplash.com/photo-1508747703725-719777637510",
			Category:       models.CategoryVegetables,
			Seller:         "El Sol Farm",
			Description:    "Fresh first-grade onions",
			AvailableKilos: 90,
		},
	}
}
