package seed

import (
	"fmt"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
)

const imageBaseURL = "https://s3.ap-southeast-2.amazonaws.com/sneakup-images"

// DemoUser holds a plaintext password; it is hashed on import.
type DemoUser struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

func DemoUsers() []DemoUser {
	users := []DemoUser{
		{Name: "Admin User", Email: "admin@sneakup.com", Password: "admin123", Role: entity.RoleAdmin},
	}
	for _, u := range []struct{ name, email string }{
		{"John Runner", "john@example.com"},
		{"Jane Hooper", "jane@example.com"},
		{"Mike Sneakerhead", "mike@example.com"},
		{"Sarah Walker", "sarah@example.com"},
		{"David Hoops", "david@example.com"},
		{"Emily Strider", "emily@example.com"},
		{"Chris Trainer", "chris@example.com"},
		{"Laura Jogger", "laura@example.com"},
		{"Alex Street", "alex@example.com"},
	} {
		users = append(users, DemoUser{Name: u.name, Email: u.email, Password: "password123", Role: entity.RoleUser})
	}
	return users
}

// images returns the three gallery shots stored under slug.
func images(slug string) []string {
	out := make([]string, 3)
	for i := range out {
		out[i] = fmt.Sprintf("%s/%s-%d.png", imageBaseURL, slug, i+1)
	}
	return out
}

func sizes(s ...string) []string { return s }

func DemoProducts() []entity.Product {
	return []entity.Product{
		{
			Name: "Nike Air Max 270", Description: "Breathable mesh upper with Max Air cushioning.",
			Brand: "Nike", Category: "Basketball Shoes", Gender: "Men", Price: 139.99, Stock: 25,
			Images: images("nike-airmax270"), Sizes: sizes("US 7", "US 8", "US 9", "US 10"),
		},
		{
			Name: "Nike Air Force 1 Low", Description: "Classic leather upper with timeless style.",
			Brand: "Nike", Category: "Casual Sneakers", Gender: "Unisex", Price: 109.99, Stock: 40,
			Images: images("nike-airforce1low"), Sizes: sizes("US 6", "US 7", "US 8", "US 9", "US 10"),
		},
		{
			Name: "New Balance 990v5", Description: "Premium suede and mesh with ENCAP midsole.",
			Brand: "New Balance", Category: "Running Shoes", Gender: "Men", Price: 184.99, Stock: 15,
			Images: images("newbalance-990v5"), Sizes: sizes("US 8", "US 9", "US 10", "US 11"),
		},
		{
			Name: "Converse Chuck 70", Description: "Vintage canvas with premium details.",
			Brand: "Converse", Category: "Casual Sneakers", Gender: "Unisex", Price: 74.99, Stock: 50,
			Images: images("converse-chuck70"), Sizes: sizes("US 6", "US 7", "US 8", "US 9", "US 10"),
		},
		{
			Name: "Vans Old Skool", Description: "Classic skate style with durable suede canvas.",
			Brand: "Vans", Category: "Skate Shoes", Gender: "Unisex", Price: 64.99, Stock: 35,
			Images: images("vans-oldskool"), Sizes: sizes("US 7", "US 8", "US 9", "US 10"),
		},
		{
			Name: "Nike ZoomX Vaporfly Next%", Description: "Elite racing shoe with carbon plate propulsion.",
			Brand: "Nike", Category: "Running Shoes", Gender: "Men", Price: 249.99, Stock: 10,
			Images: images("nike-vaporfly"), Sizes: sizes("US 8", "US 9", "US 10"),
		},
		{
			Name: "Adidas Superstar", Description: "Iconic shell-toe design with leather upper.",
			Brand: "Adidas", Category: "Casual Sneakers", Gender: "Unisex", Price: 84.99, Stock: 45,
			Images: images("adidas-superstar"), Sizes: sizes("US 6", "US 7", "US 8", "US 9"),
		},
		{
			Name: "Asics Gel-Kayano 28", Description: "Stability running shoe with GEL technology.",
			Brand: "Asics", Category: "Running Shoes", Gender: "Men", Price: 159.99, Stock: 18,
			Images: images("asics-gelkayano28"), Sizes: sizes("US 7", "US 8", "US 9", "US 10"),
		},
		{
			Name: "Reebok Club C 85", Description: "Minimalist leather tennis-inspired silhouette.",
			Brand: "Reebok", Category: "Casual Sneakers", Gender: "Unisex", Price: 74.99, Stock: 22,
			Images: images("reebok-club85"), Sizes: sizes("US 7", "US 8", "US 9"),
		},
		{
			Name: "Nike Blazer Mid '77", Description: "Vintage mid-cut design with suede accents.",
			Brand: "Nike", Category: "Casual Sneakers", Gender: "Unisex", Price: 99.99, Stock: 28,
			Images: images("nike-blazermid77"), Sizes: sizes("US 7", "US 8", "US 9", "US 10"),
		},
		{
			Name: "Adidas NMD_R1", Description: "Street-ready Boost comfort with modern styling.",
			Brand: "Adidas", Category: "Casual Sneakers", Gender: "Men", Price: 139.99, Stock: 32,
			Images: images("adidas-nmdr1"), Sizes: sizes("US 7", "US 8", "US 9", "US 10"),
		},
		{
			Name: "Fila Disruptor II", Description: "Chunky '90s-inspired silhouette with bold sole.",
			Brand: "Fila", Category: "Casual Sneakers", Gender: "Women", Price: 69.99, Stock: 30,
			Images: images("fila-disaster2"), Sizes: sizes("US 6", "US 7", "US 8", "US 9"),
		},
		{
			Name: "Reebok Nano X3", Description: "Training shoe built for performance and comfort.",
			Brand: "Reebok", Category: "Training Shoes", Gender: "Men", Price: 129.99, Stock: 20,
			Images: images("reebok-nanox3"), Sizes: sizes("US 8", "US 9", "US 10", "US 11"),
		},
		{
			Name: "Nike Air Max 90 SE", Description: "Stylish and comfortable design tailored for women.",
			Brand: "Nike", Category: "Casual Sneakers", Gender: "Women", Price: 129.99, Stock: 20,
			Images: images("nike-airmax90se"), Sizes: sizes("US 5", "US 6", "US 7", "US 8"),
		},
		{
			Name: "Adidas Ultraboost 22", Description: "Responsive running shoe for the female stride.",
			Brand: "Adidas", Category: "Running Shoes", Gender: "Women", Price: 179.99, Stock: 25,
			Images: images("adidas-ultaboost22"), Sizes: sizes("US 6", "US 7", "US 8", "US 9"),
		},
		{
			Name: "New Balance 574 Core", Description: "Iconic retro silhouette in a women's colorway.",
			Brand: "New Balance", Category: "Casual Sneakers", Gender: "Women", Price: 89.99, Stock: 22,
			Images: images("newbalance-574core"), Sizes: sizes("US 5", "US 6", "US 7", "US 8"),
		},
	}
}
