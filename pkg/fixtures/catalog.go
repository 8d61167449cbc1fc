// Package fixtures provides the small static product catalog used when no
// backend or database is configured.
package fixtures

// Product is a catalog entry in its storage form: a single list price in MXN.
type Product struct {
	ID          int
	Title       string
	Brand       string
	Description string
	Price       float64
	ImageURL    string
}

var catalog = []Product{
	{1, "Laptop Pro 14", "Nexa", "Ultraligera con pantalla de 14 pulgadas y 16 GB de RAM", 24999, "https://images.example.com/products/laptop-pro-14.jpg"},
	{2, "Kayak Explorer", "RiverRun", "Kayak inflable para dos personas con remos incluidos", 8499, ""},
	{3, "Racecar Model Kit", "Speedy", "Kit de modelismo a escala 1:24 con pintura y pegamento", 1299, "https://images.example.com/products/racecar-kit.jpg"},
	{4, "Smartphone X", "Nexa", "Pantalla OLED de 6.5 pulgadas y triple cámara", 15999, ""},
	{5, "Wireless Headphones", "SoundWave", "Audífonos inalámbricos con cancelación de ruido", 3499, "https://images.example.com/products/headphones.jpg"},
	{6, "Civic Bike Helmet", "UrbanRide", "Casco urbano ventilado con luz trasera recargable", 899, ""},
	{7, "Level Tool 24in", "BuildRight", "Nivel de aluminio de 60 cm con tres burbujas", 459, ""},
	{8, "Radar Watch", "Tempo", "Reloj deportivo con GPS y monitor de ritmo cardiaco", 4299, "https://images.example.com/products/radar-watch.jpg"},
	{9, "Abba Greatest Hits Vinyl", "Retro Records", "Edición remasterizada en vinilo de 180 gramos", 699, ""},
	{10, "Noon Desk Lamp", "Lumen", "Lámpara LED de escritorio con brillo ajustable", 749, ""},
	{11, "Coffee Maker", "BrewMaster", "Cafetera programable de 12 tazas con jarra térmica", 1899, "https://images.example.com/products/coffee-maker.jpg"},
	{12, "Yoga Mat", "ZenFlow", "Tapete antiderrapante de 6 mm con correa", 549, ""},
}

// Catalog returns a copy of the fixture catalog ordered by ID.
func Catalog() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}
