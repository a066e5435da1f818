package catalog

import "github.com/utafrali/storefront/internal/domain"

const imageBase = "https://heritageorganic.ae/wp-content/uploads/"

// heritageProducts is the compiled-in Heritage Nature Organics catalog.
var heritageProducts = []domain.Product{
	{
		ID:          "1",
		Name:        "King Coconut Water",
		Price:       12_50,
		Description: "100% Natural King Coconut Water from the heart of Sri Lanka. Hydrating, refreshing, and packed with electrolytes.",
		Category:    domain.CategoryBeverages,
		Image:       imageBase + "2024/12/Untitled-design-2024-12-30T131933.599.jpg",
		Images: []string{
			imageBase + "2024/12/Untitled-design-2024-12-30T131933.599.jpg",
			imageBase + "2024/12/Rich-in-Antioxidants-23.png",
			imageBase + "2024/12/King-Coconut-Water.jpg",
		},
		Badges:  []string{"Organic", "Vegan", "No Added Sugar"},
		Rating:  4.9,
		Reviews: 128,
		Details: domain.ProductDetails{Origin: "Sri Lanka", Weight: "350ml", Ingredients: "100% King Coconut Water"},
	},
	{
		ID:          "2",
		Name:        "Moringa Leaf Powder",
		Price:       45_00,
		Description: "Premium organic Moringa Oleifera leaf powder. A superfood rich in antioxidants, vitamins, and minerals to boost immunity.",
		Category:    domain.CategorySuperfoods,
		Image:       imageBase + "2024/12/Untitled-design-2024-12-30T115229.634.jpg",
		Images: []string{
			imageBase + "2024/12/Untitled-design-2024-12-30T115229.634.jpg",
			imageBase + "2024/12/Rich-in-Antioxidants-15.png",
			imageBase + "2024/12/Moringa-Powder.jpg",
		},
		Badges:  []string{"USDA Organic", "Gluten Free", "Non-GMO"},
		Rating:  4.8,
		Reviews: 85,
		Details: domain.ProductDetails{Origin: "Sri Lanka", Weight: "200g", Ingredients: "Organic Moringa Leaves"},
	},
	{
		ID:          "3",
		Name:        "Extra Virgin Coconut Oil",
		Price:       32_00,
		Description: "Cold-pressed, unrefined coconut oil. Perfect for cooking, baking, or as a natural moisturizer for skin and hair.",
		Category:    domain.CategoryOils,
		Image:       imageBase + "2024/12/Untitled-design-2024-12-30T130819.627.jpg",
		Images: []string{
			imageBase + "2024/12/Untitled-design-2024-12-30T130819.627.jpg",
			imageBase + "2024/12/Untitled-design-2025-01-12T152250.985.png",
			imageBase + "2024/12/Extra-Virgin-Coconut-500ml.jpg",
		},
		Badges:  []string{"Keto Friendly", "Organic", "Cold Pressed"},
		Rating:  4.9,
		Reviews: 210,
		Details: domain.ProductDetails{Origin: "Sri Lanka", Weight: "500ml", Ingredients: "100% Organic Coconuts"},
	},
	{
		ID:          "4",
		Name:        "Ceylon Cinnamon Powder",
		Price:       28_00,
		Description: `Authentic Ceylon Cinnamon powder. Known as "True Cinnamon", it has a delicate flavor and numerous health benefits.`,
		Category:    domain.CategorySpices,
		Image:       imageBase + "2024/12/Untitled-design-2024-12-30T110648.713.jpg",
		Images: []string{
			imageBase + "2024/12/Untitled-design-2024-12-30T110648.713.jpg",
			imageBase + "2024/12/Rich-in-Antioxidants-17.png",
		},
		Badges:  []string{"Ceylon Cinnamon", "Organic"},
		Rating:  4.7,
		Reviews: 64,
		Details: domain.ProductDetails{Origin: "Sri Lanka", Weight: "300g", Ingredients: "Organic Cinnamon Bark"},
	},
	{
		ID:          "5",
		Name:        "Coconut Flour",
		Price:       18_00,
		Description: "Gluten-free, high-fiber flour made from dried coconut meat. An excellent alternative for healthy baking.",
		Category:    domain.CategoryPantry,
		Image:       imageBase + "2024/12/Untitled-design-2024-12-30T122839.503.jpg",
		Images: []string{
			imageBase + "2024/12/Untitled-design-2024-12-30T122839.503.jpg",
			imageBase + "2024/12/Untitled-design-2025-01-12T153430.767.png",
			imageBase + "2024/12/Coconut-Flour-300g.jpg",
		},
		Badges:  []string{"Gluten Free", "High Fiber"},
		Rating:  4.6,
		Reviews: 42,
		Details: domain.ProductDetails{Origin: "Sri Lanka", Weight: "300g", Ingredients: "Organic Coconut"},
	},
	{
		ID:          "6",
		Name:        "Desiccated Coconut Fine",
		Price:       15_00,
		Description: "Finely shredded, unsweetened coconut. Perfect for curries, desserts, and smoothies.",
		Category:    domain.CategoryPantry,
		Image:       imageBase + "2024/12/Untitled-design-2024-12-30T125936.540.jpg",
		Images: []string{
			imageBase + "2024/12/Untitled-design-2024-12-30T125936.540.jpg",
			imageBase + "2024/12/Rich-in-Antioxidants-7.png",
		},
		Badges:  []string{"No Preservatives", "Natural"},
		Rating:  4.8,
		Reviews: 33,
		Details: domain.ProductDetails{Origin: "Sri Lanka", Weight: "300g", Ingredients: "Dried Coconut Kernel"},
	},
}
