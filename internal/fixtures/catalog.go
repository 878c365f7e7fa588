// Package fixtures provides a small Bandung catalog shared by package tests.
package fixtures

import (
	"strings"

	"github.com/hyperjump/kuliner/internal/models"
)

// Record indices of notable fixture entries.
const (
	KopiSenja       = 0
	RoemahKopiDago  = 1
	KoffieHuis      = 2
	WarungKopi      = 3
	SederhanaPadang = 4
	PadangSabana    = 5
	SushiTei        = 6
	RamenBajuri     = 7
	SundaImas       = 8
	BaksoMasAri     = 9
	MieKocok        = 10
	IniItuCafe      = 11
	SteakHouse      = 12
	BragaPermai     = 13
	KopiTokoDjawa   = 14
)

// Catalog returns a fresh copy of the fixture records with search text filled in.
func Catalog() []models.Business {
	rows := []models.Business{
		{Name: "Kopi Senja", Category: "Cafe & Dessert", PriceTier: "Murah", PriceRange: "Rp15.000 - Rp30.000",
			Menu: "Es Kopi Susu, Kopi Tubruk, Roti Bakar", Description: "Kedai kopi kecil di pojok Braga",
			Address: "Jl. Braga No. 8, Sumur Bandung", Ambience: "santai, nyaman", Facilities: "wifi, stopkontak",
			VisitorTypes: "mahasiswa, pekerja"},
		{Name: "Roemah Kopi Dago", Category: "Cafe & Dessert", PriceTier: "Sedang", PriceRange: "Rp30.000 - Rp60.000",
			Menu: "Kopi Susu Gula Aren, Croissant, Affogato", Description: "Tempat kerja favorit dengan jendela besar",
			Address: "Jl. Ir. H. Juanda No. 120, Coblong", Ambience: "nyaman, tenang", Facilities: "wifi, parkir",
			VisitorTypes: "pekerja, mahasiswa"},
		{Name: "Koffie Huis", Category: "Cafe & Dessert", PriceTier: "Mahal", PriceRange: "Rp60.000 - Rp150.000",
			Menu: "Espresso, Cappuccino, Tiramisu", Description: "Kafe bergaya Belanda",
			Address: "Jl. Setiabudi No. 40, Cidadap", Ambience: "mewah, romantis", Facilities: "wifi, parkir luas",
			VisitorTypes: "pasangan, keluarga"},
		{Name: "Warung Kopi Murah Meriah", Category: "Cafe & Dessert", PriceTier: "Murah", PriceRange: "Rp10.000 - Rp20.000",
			Menu: "Kopi Hitam, Indomie Rebus, Pisang Goreng", Description: "Warkop buka 24 jam",
			Address: "Jl. Cihampelas No. 77, Cipaganti", Ambience: "santai", Facilities: "wifi",
			VisitorTypes: "mahasiswa"},
		{Name: "Sederhana Padang", Category: "Masakan Padang", PriceTier: "Sedang", PriceRange: "Rp25.000 - Rp50.000",
			Menu: "Rendang, Ayam Pop, Gulai Tunjang", Description: "Nasi padang lengkap",
			Address: "Jl. Pasteur No. 15, Sukajadi", Ambience: "ramai", Facilities: "parkir, musholla",
			VisitorTypes: "keluarga, pekerja"},
		{Name: "Padang Murah Sabana", Category: "Masakan Padang", PriceTier: "Murah", PriceRange: "Rp12.000 - Rp25.000",
			Menu: "Nasi Rendang, Ayam Bakar, Sayur Nangka", Description: "Porsi besar harga mahasiswa",
			Address: "Jl. Dipatiukur No. 21, Coblong", Ambience: "ramai", Facilities: "parkir",
			VisitorTypes: "mahasiswa"},
		{Name: "Sushi Tei Express", Category: "Japanese Food", PriceTier: "Mahal", PriceRange: "Rp80.000 - Rp200.000",
			Menu: "Salmon Sushi, Sashimi, Ramen Miso", Description: "Restoran jepang modern",
			Address: "Jl. Riau No. 5, Citarum", Ambience: "modern, nyaman", Facilities: "parkir, wifi",
			VisitorTypes: "keluarga, pasangan"},
		{Name: "Ramen Bajuri", Category: "Japanese Food", PriceTier: "Sedang", PriceRange: "Rp35.000 - Rp60.000",
			Menu: "Ramen Pedas, Gyoza, Katsu Don", Description: "Ramen kuah kental",
			Address: "Jl. Braga No. 30, Sumur Bandung", Ambience: "santai", Facilities: "wifi",
			VisitorTypes: "mahasiswa"},
		{Name: "Rumah Makan Sunda Ibu Imas", Category: "Masakan Sunda", PriceTier: "Murah", PriceRange: "Rp15.000 - Rp35.000",
			Menu: "Nasi Timbel, Ayam Goreng, Karedok, Pepes Ikan", Description: "Masakan rumahan khas Sunda",
			Address: "Jl. Lengkong Kecil No. 9, Lengkong", Ambience: "tradisional, ramai", Facilities: "parkir, musholla",
			VisitorTypes: "keluarga, rombongan"},
		{Name: "Bakso Mas Ari", Category: "Bakso & Mie", PriceTier: "Murah", PriceRange: "Rp15.000 - Rp30.000",
			Menu: "Bakso Urat, Mie Ayam, Bakso Bakar", Description: "Bakso urat legendaris",
			Address: "Jl. Cicendo No. 4, Cicendo", Ambience: "sederhana", Facilities: "parkir",
			VisitorTypes: "keluarga, pekerja"},
		{Name: "Mie Kocok Mang Dadeng", Category: "Bakso & Mie", PriceTier: "Murah", PriceRange: "Rp20.000 - Rp35.000",
			Menu: "Mie Kocok, Bakso Sapi", Description: "Mie kocok kaki sapi",
			Address: "Jl. Sukajadi No. 50, Sukajadi", Ambience: "sederhana", Facilities: "parkir",
			VisitorTypes: "pekerja"},
		{Name: "Ini Itu Cafe", Category: "Aneka Masakan", PriceTier: "Sedang", PriceRange: "Rp25.000 - Rp55.000",
			Menu: "Nasi Goreng, Pasta, Es Teh", Description: "Menu campur untuk semua",
			Address: "Jl. Martadinata No. 60, Citarum", Ambience: "santai", Facilities: "wifi",
			VisitorTypes: "keluarga"},
		{Name: "The Steak House", Category: "Western Food", PriceTier: "Mahal", PriceRange: "Rp90.000 - Rp250.000",
			Menu: "Sirloin Steak, Tenderloin, Mashed Potato", Description: "Steak premium",
			Address: "Jl. Sukajadi No. 100, Sukajadi", Ambience: "mewah, romantis", Facilities: "parkir luas, wifi",
			VisitorTypes: "pasangan, keluarga"},
		{Name: "Braga Permai", Category: "Aneka Masakan", PriceTier: "Mahal", PriceRange: "Rp60.000 - Rp150.000",
			Menu: "Poffertjes, Bistik, Es Krim", Description: "Restoran klasik sejak 1918",
			Address: "Jl. Braga No. 58, Sumur Bandung", Ambience: "klasik, romantis", Facilities: "parkir",
			VisitorTypes: "keluarga, pasangan"},
		{Name: "Kopi Toko Djawa", Category: "Cafe & Dessert", PriceTier: "Sedang", PriceRange: "Rp20.000 - Rp45.000",
			Menu: "Es Kopi Susu, Pisang Bakar", Description: "Bekas toko buku tua",
			Address: "Jl. Braga No. 81, Sumur Bandung", Ambience: "klasik, santai", Facilities: "wifi",
			VisitorTypes: "mahasiswa"},
	}
	for i := range rows {
		rows[i].ID = i
		rows[i].SearchText = searchText(&rows[i])
	}
	return rows
}

func searchText(b *models.Business) string {
	parts := []string{b.Name, b.Category, b.Menu, b.Ambience, b.Facilities, b.VisitorTypes, b.Address, b.PriceTier, b.Description}
	return strings.Join(parts, " ")
}
