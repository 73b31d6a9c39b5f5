// Package seed holds the reference dataset served when no backend is
// configured.
package seed

import "github.com/MrSnakeDoc/gompa/internal/offline"

// Source returns the reference dataset as an offline.Source.
func Source() offline.StaticSource {
	return offline.StaticSource{
		offline.Monasteries:       monasteries(),
		offline.Tours:             tours(),
		offline.Maps:              maps(),
		offline.Documents:         documents(),
		offline.EmergencyContacts: emergencyContacts(),
	}
}

func monasteries() []offline.Record {
	return []offline.Record{
		{
			"id":          "potala-palace",
			"name":        "Potala Palace",
			"location":    "Lhasa, Tibet",
			"tradition":   "Gelug",
			"founded":     "1645",
			"description": "Former winter residence of the Dalai Lama, rising thirteen storeys above the Lhasa valley.",
			"image":       "/images/monasteries/potala-palace.jpg",
			"coordinates": map[string]any{"lat": 29.6578, "lng": 91.1169},
		},
		{
			"id":          "jokhang-temple",
			"name":        "Jokhang Temple",
			"location":    "Lhasa, Tibet",
			"tradition":   "Gelug",
			"founded":     "647",
			"description": "The most sacred temple in Tibet, home of the Jowo Shakyamuni statue.",
			"image":       "/images/monasteries/jokhang-temple.jpg",
			"coordinates": map[string]any{"lat": 29.6525, "lng": 91.1322},
		},
	}
}

func tours() []offline.Record {
	return []offline.Record{
		{
			"id":           "potala-virtual-tour",
			"monasteryId":  "potala-palace",
			"title":        "Potala Palace 360° Tour",
			"durationMins": 45,
			"scenes":       []any{"white-palace", "red-palace", "rooftop"},
			"languages":    []any{"en", "zh", "bo"},
		},
		{
			"id":           "jokhang-virtual-tour",
			"monasteryId":  "jokhang-temple",
			"title":        "Jokhang Temple Pilgrimage Walk",
			"durationMins": 30,
			"scenes":       []any{"barkhor", "main-hall", "jowo-chapel"},
			"languages":    []any{"en", "zh"},
		},
	}
}

func maps() []offline.Record {
	return []offline.Record{
		{
			"id":       "lhasa-overview",
			"title":    "Lhasa Old Town",
			"tileUrl":  "/maps/lhasa/{z}/{x}/{y}.png",
			"minZoom":  12,
			"maxZoom":  17,
			"bounds":   []any{29.63, 91.09, 29.68, 91.15},
			"landmark": []any{"potala-palace", "jokhang-temple"},
		},
	}
}

func documents() []offline.Record {
	return []offline.Record{
		{
			"id":          "potala-history",
			"title":       "A Short History of the Potala",
			"monasteryId": "potala-palace",
			"type":        "article",
			"language":    "en",
		},
		{
			"id":          "jokhang-murals",
			"title":       "Murals of the Jokhang",
			"monasteryId": "jokhang-temple",
			"type":        "manuscript",
			"language":    "en",
		},
	}
}

func emergencyContacts() []offline.Record {
	return []offline.Record{
		{"id": "police", "name": "Police", "phone": "110"},
		{"id": "ambulance", "name": "Ambulance", "phone": "120"},
		{"id": "fire", "name": "Fire", "phone": "119"},
		{"id": "tourist-hotline", "name": "Lhasa Tourist Hotline", "phone": "+86 891 12301"},
	}
}
