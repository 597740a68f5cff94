package domain

const placeholderImage = "https://via.placeholder.com/300x200?text=TechStore"

type seedRow struct {
	category    string
	name        string
	brand       string
	productType string
	price       float64
	description string
}

var seedRows = []seedRow{
	{"smartphones", "Apple iPhone 13 128GB", "Apple", "smartphone", 32999, "OLED, A15, 12 MP camera"},
	{"smartphones", "Samsung Galaxy A55 5G", "Samsung", "smartphone", 19499, "AMOLED, 8 GB RAM"},
	{"smartphones", "Xiaomi Redmi Note 13", "Xiaomi", "smartphone", 10999, "AMOLED 120Hz, 8/256"},
	{"tv", "Samsung 55\" 4K Smart TV", "Samsung", "tv", 19999, "4K UHD, Smart TV"},
	{"tv", "LG 50\" 4K NanoCell", "LG", "tv", 17999, "HDR10, ThinQ AI"},
	{"tv", "Sony HT-S400 Soundbar", "Sony", "soundbar", 8999, "2.1 soundbar"},
	{"notebooks", "Lenovo IdeaPad 3 15", "Lenovo", "office", 19999, "Ryzen 5, 8/512"},
	{"notebooks", "ASUS TUF Gaming F15", "ASUS", "gaming", 34999, "RTX 3050, 16/512"},
	{"notebooks", "Apple MacBook Air 13", "Apple", "ultrabook", 39999, "M1, 8/256"},
	{"kitchen", "Philips ProMix Blender", "Philips", "blender", 1899, "Sturdy wand, attachments"},
	{"kitchen", "Tefal Kettle 1.7 l", "Tefal", "kettle", 1299, "Fast boil"},
	{"kitchen", "Bosch Microwave Oven", "Bosch", "microwave", 4999, "20 l, quartz grill"},
	{"home-tech", "Xiaomi Robot Vacuum", "Xiaomi", "vacuum", 8999, "Lidar, auto dock"},
	{"home-tech", "Philips Steam Iron", "Philips", "iron", 1599, "Steam boost"},
	{"home-tech", "Dyson Air Purifier", "Dyson", "air_purifier", 13999, "HEPA filter"},
	{"gaming", "Sony PlayStation 5", "Sony", "console", 22999, "SSD, DualSense"},
	{"gaming", "Xbox Wireless Controller", "Microsoft", "controller", 2499, "Bluetooth"},
	{"gaming", "Logitech G502 HERO", "Logitech", "accessory", 1999, "Gaming mouse"},
	{"dishes", "Tefal Frying Pan 28 cm", "Tefal", "pan", 999, "Non-stick coating"},
	{"dishes", "Luminarc Plate Set (12)", "Luminarc", "tableware", 799, "12 pieces"},
	{"dishes", "BergHOFF Pot 5 l", "BergHOFF", "pot", 1799, "Stainless steel"},
	{"photo-video", "Canon EOS M50", "Canon", "camera", 22999, "APS-C, 4K"},
	{"photo-video", "Sony FE 50mm f/1.8", "Sony", "lens", 7999, "Full frame"},
	{"photo-video", "GoPro HERO 11", "GoPro", "action", 15999, "5.3K, stabilization"},
	{"beauty", "Philips Hair Dryer 2200W", "Philips", "hairdryer", 1499, "Ionic care"},
	{"beauty", "Braun Trimmer", "Braun", "trimmer", 1299, "Attachments included"},
	{"beauty", "Remington Straightener", "Remington", "straightener", 1099, "Ceramic plates"},
	{"auto-tools", "Bosch Compressor", "Bosch", "compressor", 1899, "12V, auto stop"},
	{"auto-tools", "Xiaomi Charging Cable", "Xiaomi", "car_accessory", 299, "Type-C"},
	{"auto-tools", "Dremel Multitool", "Dremel", "tool", 2199, "Accessory kit"},
	{"sport", "Garmin Forerunner", "Garmin", "fitness", 7999, "GPS, heart rate"},
	{"sport", "Trek FX Bike", "Trek", "bike", 18999, "Lightweight aluminium"},
	{"sport", "Xiaomi Smart Scale", "Xiaomi", "sport_accessory", 999, "Bluetooth"},
	{"home-garden", "Karcher Pressure Washer", "Karcher", "tool", 6499, "120 bar"},
	{"home-garden", "Gardena Trimmer", "Gardena", "trimmer", 2499, "Electric"},
	{"home-garden", "Fiskars Pruner", "Fiskars", "tool", 699, "Steel blade"},
	{"kids", "LEGO Classic 11005", "LEGO", "toy", 1499, "500 pieces"},
	{"kids", "Chicco Stroller", "Chicco", "stroller", 3999, "Lightweight"},
	{"kids", "Pampers Pants 4", "Pampers", "care", 599, "Jumbo pack"},
}

// SeedProducts returns the demo assortment, three products per category
func SeedProducts() []Product {
	out := make([]Product, 0, len(seedRows))
	for _, r := range seedRows {
		c, _ := LookupCategory(r.category)
		out = append(out, Product{
			CategoryID:       c.ID,
			Name:             r.name,
			Brand:            r.brand,
			ProductType:      r.productType,
			ShortDescription: r.description,
			ImageURL:         placeholderImage,
			Price:            r.price,
			StockQuantity:    10,
		})
	}
	return out
}
