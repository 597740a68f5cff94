package domain

// Option is a selectable value with a display label
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Category is a static catalog section. Brands and types list the values
// the storefront offers for products of the category.
type Category struct {
	ID       uint     `json:"category_id"`
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Brands   []string `json:"brands"`
	Types    []Option `json:"types"`
}

// AllowsBrand reports whether the brand is offered in the category
func (c Category) AllowsBrand(brand string) bool {
	for _, b := range c.Brands {
		if b == brand {
			return true
		}
	}
	return false
}

// AllowsType reports whether the product type is offered in the category
func (c Category) AllowsType(productType string) bool {
	for _, t := range c.Types {
		if t.Value == productType {
			return true
		}
	}
	return false
}

var categories = []Category{
	{
		ID: 1, Key: "smartphones", Title: "Smartphones", Subtitle: "Phones for every budget",
		Brands: []string{"Apple", "Samsung", "Xiaomi", "realme", "Nokia"},
		Types:  []Option{{"smartphone", "Smartphones"}, {"button", "Feature phones"}},
	},
	{
		ID: 2, Key: "tv", Title: "TV & Audio", Subtitle: "Televisions, soundbars and speakers",
		Brands: []string{"Samsung", "LG", "Sony", "Philips", "Xiaomi"},
		Types:  []Option{{"tv", "Televisions"}, {"soundbar", "Soundbars"}, {"speakers", "Speakers"}},
	},
	{
		ID: 3, Key: "notebooks", Title: "Notebooks", Subtitle: "Laptops for work, study and play",
		Brands: []string{"Lenovo", "HP", "ASUS", "Acer", "Apple"},
		Types:  []Option{{"office", "Work and study"}, {"gaming", "Gaming"}, {"ultrabook", "Ultrabooks"}},
	},
	{
		ID: 4, Key: "kitchen", Title: "Kitchen", Subtitle: "Small kitchen appliances",
		Brands: []string{"Philips", "Tefal", "Bosch", "Gorenje", "Zelmer"},
		Types:  []Option{{"blender", "Blenders"}, {"kettle", "Kettles"}, {"microwave", "Microwave ovens"}, {"multicooker", "Multicookers"}},
	},
	{
		ID: 5, Key: "home-tech", Title: "Home appliances", Subtitle: "Cleaning and climate",
		Brands: []string{"Philips", "Bosch", "LG", "Xiaomi", "Dyson"},
		Types:  []Option{{"vacuum", "Vacuum cleaners"}, {"iron", "Irons"}, {"air_purifier", "Air purifiers"}},
	},
	{
		ID: 6, Key: "gaming", Title: "Gaming", Subtitle: "Consoles and accessories",
		Brands: []string{"Sony", "Microsoft", "Nintendo", "Logitech", "Razer"},
		Types:  []Option{{"console", "Consoles"}, {"controller", "Controllers"}, {"accessory", "Accessories"}},
	},
	{
		ID: 7, Key: "dishes", Title: "Dishes", Subtitle: "Cookware and tableware",
		Brands: []string{"Tefal", "BergHOFF", "Pyrex", "Luminarc", "Villeroy & Boch"},
		Types:  []Option{{"pan", "Pans"}, {"pot", "Pots"}, {"tableware", "Tableware"}},
	},
	{
		ID: 8, Key: "photo-video", Title: "Photo & Video", Subtitle: "Cameras and lenses",
		Brands: []string{"Canon", "Nikon", "Sony", "GoPro", "Panasonic"},
		Types:  []Option{{"camera", "Cameras"}, {"lens", "Lenses"}, {"action", "Action cameras"}},
	},
	{
		ID: 9, Key: "beauty", Title: "Beauty", Subtitle: "Personal care devices",
		Brands: []string{"Philips", "Braun", "Remington", "Xiaomi", "Rowenta"},
		Types:  []Option{{"hairdryer", "Hair dryers"}, {"trimmer", "Trimmers"}, {"straightener", "Straighteners"}},
	},
	{
		ID: 10, Key: "auto-tools", Title: "Auto & Tools", Subtitle: "Car accessories and power tools",
		Brands: []string{"Bosch", "Xiaomi", "Michelin", "Osram", "Dremel"},
		Types:  []Option{{"car_accessory", "Car accessories"}, {"compressor", "Compressors"}, {"tool", "Tools"}},
	},
	{
		ID: 11, Key: "sport", Title: "Sport", Subtitle: "Fitness, bikes and gear",
		Brands: []string{"Adidas", "Nike", "Xiaomi", "Garmin", "Trek"},
		Types:  []Option{{"fitness", "Fitness"}, {"bike", "Bikes"}, {"sport_accessory", "Accessories"}},
	},
	{
		ID: 12, Key: "home-garden", Title: "Home & Garden", Subtitle: "Garden equipment",
		Brands: []string{"Gardena", "Bosch", "Karcher", "Fiskars", "Stihl"},
		Types:  []Option{{"mower", "Lawn mowers"}, {"trimmer", "Trimmers"}, {"tool", "Tools"}},
	},
	{
		ID: 13, Key: "kids", Title: "Kids", Subtitle: "Toys, strollers and care",
		Brands: []string{"LEGO", "Chicco", "Pampers", "Fisher-Price", "Philips Avent"},
		Types:  []Option{{"toy", "Toys"}, {"stroller", "Strollers"}, {"care", "Care"}},
	},
}

// Categories returns the static category catalog ordered by id
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// LookupCategory finds a category by key
func LookupCategory(key string) (Category, bool) {
	for _, c := range categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryByID finds a category by numeric id
func CategoryByID(id uint) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
