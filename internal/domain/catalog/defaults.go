package catalog

// Default returns the built-in Maharashtra / Uttar Pradesh crop catalog.
func Default() Catalog {
	return MustNew(defaultCrops())
}

func defaultCrops() []CropDefinition {
	return []CropDefinition{
		{ID: "rice_basmati", Name: "Rice (Basmati)", DurationDays: 140, WaterRequirementMm: 1200, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 1.8, BaseMarketPrice: 35000, InputCost: 25000, SoilTypes: []string{"Clay", "Loamy", "Alluvial"}, Zones: []string{GeneralZone}},
		{ID: "rice_non_basmati", Name: "Rice (Indrayani/Kolam)", DurationDays: 135, WaterRequirementMm: 1100, Temperature: TemperatureRange{22, 36}, BaseYieldTons: 2.2, BaseMarketPrice: 22000, InputCost: 22000, SoilTypes: []string{"Clay", "Loamy"}, Zones: []string{"Konkan", "Eastern Maharashtra", GeneralZone}},
		{ID: "wheat_lokwan", Name: "Wheat (Lokwan)", DurationDays: 120, WaterRequirementMm: 450, Temperature: TemperatureRange{10, 35}, BaseYieldTons: 1.8, BaseMarketPrice: 24000, InputCost: 18000, SoilTypes: []string{"Black", "Alluvial", "Loamy"}, Zones: []string{GeneralZone}},
		{ID: "wheat_sharbati", Name: "Wheat (Sharbati)", DurationDays: 130, WaterRequirementMm: 500, Temperature: TemperatureRange{10, 32}, BaseYieldTons: 1.5, BaseMarketPrice: 38000, InputCost: 20000, SoilTypes: []string{"Black", "Loamy"}, Zones: []string{GeneralZone}},
		{ID: "jowar_hybrid", Name: "Jowar (Sorghum)", DurationDays: 110, WaterRequirementMm: 350, Temperature: TemperatureRange{20, 40}, BaseYieldTons: 1.2, BaseMarketPrice: 28000, InputCost: 12000, SoilTypes: []string{"Black", "Medium"}, Zones: []string{"Marathwada", "Western Maharashtra"}},
		{ID: "bajra_hybrid", Name: "Bajra (Pearl Millet)", DurationDays: 90, WaterRequirementMm: 250, Temperature: TemperatureRange{25, 40}, BaseYieldTons: 1.0, BaseMarketPrice: 22000, InputCost: 10000, SoilTypes: []string{"Medium", "Sandy Loam"}, Zones: []string{"Marathwada", "Northern Maharashtra"}},
		{ID: "maize_rabi", Name: "Maize (Rabi)", DurationDays: 120, WaterRequirementMm: 500, Temperature: TemperatureRange{18, 35}, BaseYieldTons: 3.5, BaseMarketPrice: 21000, InputCost: 18000, SoilTypes: []string{"Medium", "Loamy"}, Zones: []string{GeneralZone}},
		{ID: "maize_kharif", Name: "Maize (Kharif)", DurationDays: 100, WaterRequirementMm: 450, Temperature: TemperatureRange{22, 38}, BaseYieldTons: 3.0, BaseMarketPrice: 19000, InputCost: 16000, SoilTypes: []string{"Medium"}, Zones: []string{GeneralZone}},
		{ID: "tur_arhar", Name: "Tur (Red Gram)", DurationDays: 180, WaterRequirementMm: 450, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 0.8, BaseMarketPrice: 70000, InputCost: 15000, SoilTypes: []string{"Medium", "Loamy"}, Zones: []string{"Marathwada", "Vidarbha"}, IsLegume: true},
		{ID: "gram_chana", Name: "Gram (Chana)", DurationDays: 110, WaterRequirementMm: 300, Temperature: TemperatureRange{10, 30}, BaseYieldTons: 0.9, BaseMarketPrice: 55000, InputCost: 14000, SoilTypes: []string{"Black", "Loamy"}, Zones: []string{GeneralZone}, IsLegume: true},
		{ID: "moong_summer", Name: "Moong (Summer)", DurationDays: 65, WaterRequirementMm: 300, Temperature: TemperatureRange{25, 40}, BaseYieldTons: 0.5, BaseMarketPrice: 80000, InputCost: 8000, SoilTypes: []string{"Medium"}, Zones: []string{GeneralZone}, IsLegume: true},
		{ID: "urad_black_gram", Name: "Urad (Black Gram)", DurationDays: 80, WaterRequirementMm: 350, Temperature: TemperatureRange{22, 38}, BaseYieldTons: 0.6, BaseMarketPrice: 75000, InputCost: 10000, SoilTypes: []string{"Medium", "Black"}, Zones: []string{"Vidarbha", "Marathwada"}, IsLegume: true},
		{ID: "soybean_js335", Name: "Soybean (JS-335)", DurationDays: 100, WaterRequirementMm: 450, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 1.0, BaseMarketPrice: 46000, InputCost: 16000, SoilTypes: []string{"Black", "Medium"}, Zones: []string{"Vidarbha", "Marathwada", "Western Maharashtra"}, IsLegume: true},
		{ID: "groundnut_rabi", Name: "Groundnut (Rabi)", DurationDays: 130, WaterRequirementMm: 600, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 1.2, BaseMarketPrice: 60000, InputCost: 22000, SoilTypes: []string{"Sandy Loam", "Light"}, Zones: []string{GeneralZone}, IsLegume: true, Category: Pulse},
		{ID: "safflower_kardi", Name: "Safflower (Kardi)", DurationDays: 135, WaterRequirementMm: 300, Temperature: TemperatureRange{15, 35}, BaseYieldTons: 0.6, BaseMarketPrice: 45000, InputCost: 8000, SoilTypes: []string{"Black"}, Zones: []string{"Marathwada"}},
		{ID: "mustard_rai", Name: "Mustard (Rai)", DurationDays: 110, WaterRequirementMm: 300, Temperature: TemperatureRange{10, 30}, BaseYieldTons: 0.7, BaseMarketPrice: 50000, InputCost: 10000, SoilTypes: []string{"Loamy", "Sandy"}, Zones: []string{GeneralZone}},
		{ID: "sunflower_hybrid", Name: "Sunflower (Hybrid)", DurationDays: 100, WaterRequirementMm: 450, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 0.8, BaseMarketPrice: 52000, InputCost: 15000, SoilTypes: []string{"Black", "Medium"}, Zones: []string{"Marathwada"}},
		{ID: "sugarcane_1", Name: "Sugarcane (Adsali)", DurationDays: 450, WaterRequirementMm: 2500, Temperature: TemperatureRange{20, 40}, BaseYieldTons: 120, BaseMarketPrice: 3150, InputCost: 50000, SoilTypes: []string{"Black", "Clay"}, Zones: []string{"Western Maharashtra"}},
		{ID: "sugarcane_seasonal", Name: "Sugarcane (Seasonal)", DurationDays: 365, WaterRequirementMm: 2000, Temperature: TemperatureRange{20, 40}, BaseYieldTons: 90, BaseMarketPrice: 3150, InputCost: 40000, SoilTypes: []string{"Black", "Medium"}, Zones: []string{"Western Maharashtra"}},
		{ID: "cotton_bt", Name: "Cotton (Bt Hybrid)", DurationDays: 160, WaterRequirementMm: 700, Temperature: TemperatureRange{22, 38}, BaseYieldTons: 1.2, BaseMarketPrice: 65000, InputCost: 20000, SoilTypes: []string{"Black Cotton Soil"}, Zones: []string{"Vidarbha", "Marathwada", "Khandesh"}},
		{ID: "turmeric_selam", Name: "Turmeric (Selam)", DurationDays: 270, WaterRequirementMm: 1500, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 8, BaseMarketPrice: 7000, InputCost: 40000, SoilTypes: []string{"Loamy", "Black"}, Zones: []string{"Western Maharashtra"}, Category: CashCrop},
		{ID: "ginger_local", Name: "Ginger (Local)", DurationDays: 240, WaterRequirementMm: 1600, Temperature: TemperatureRange{18, 35}, BaseYieldTons: 12, BaseMarketPrice: 40000, InputCost: 60000, SoilTypes: []string{"Loamy", "Well Drained"}, Zones: []string{"Western Maharashtra"}, Category: CashCrop},
		{ID: "onion_red", Name: "Onion (Red/Rabi)", DurationDays: 120, WaterRequirementMm: 500, Temperature: TemperatureRange{15, 32}, BaseYieldTons: 12, BaseMarketPrice: 15000, InputCost: 35000, SoilTypes: []string{"Medium", "Loamy"}, Zones: []string{"Nashik", "Pune"}},
		{ID: "onion_kharif", Name: "Onion (Kharif)", DurationDays: 100, WaterRequirementMm: 450, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 10, BaseMarketPrice: 12000, InputCost: 30000, SoilTypes: []string{"Medium"}, Zones: []string{"Nashik"}},
		{ID: "tomato_hybrid", Name: "Tomato (Hybrid)", DurationDays: 130, WaterRequirementMm: 600, Temperature: TemperatureRange{18, 30}, BaseYieldTons: 25, BaseMarketPrice: 10000, InputCost: 45000, SoilTypes: []string{"Medium", "Loamy"}, Zones: []string{GeneralZone}},
		{ID: "potato_khufri", Name: "Potato (Khufri)", DurationDays: 90, WaterRequirementMm: 400, Temperature: TemperatureRange{15, 25}, BaseYieldTons: 15, BaseMarketPrice: 12000, InputCost: 35000, SoilTypes: []string{"Sandy Loam"}, Zones: []string{"Pune", "Satara"}},
		{ID: "chili_green", Name: "Chili (Green)", DurationDays: 160, WaterRequirementMm: 700, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 8, BaseMarketPrice: 30000, InputCost: 40000, SoilTypes: []string{"Black", "Loamy"}, Zones: []string{GeneralZone}},
		{ID: "brinjal_hybrid", Name: "Brinjal (Hybrid)", DurationDays: 150, WaterRequirementMm: 800, Temperature: TemperatureRange{20, 35}, BaseYieldTons: 20, BaseMarketPrice: 15000, InputCost: 30000, SoilTypes: []string{"Medium"}, Zones: []string{GeneralZone}},
		{ID: "okra_bhindi", Name: "Okra (Bhindi)", DurationDays: 90, WaterRequirementMm: 450, Temperature: TemperatureRange{22, 38}, BaseYieldTons: 8, BaseMarketPrice: 25000, InputCost: 25000, SoilTypes: []string{"Medium"}, Zones: []string{GeneralZone}},
		{ID: "cauliflower", Name: "Cauliflower", DurationDays: 85, WaterRequirementMm: 400, Temperature: TemperatureRange{15, 25}, BaseYieldTons: 12, BaseMarketPrice: 15000, InputCost: 20000, SoilTypes: []string{"Loamy"}, Zones: []string{"Pune", "Nashik"}},
		{ID: "cabbage", Name: "Cabbage", DurationDays: 90, WaterRequirementMm: 400, Temperature: TemperatureRange{15, 25}, BaseYieldTons: 15, BaseMarketPrice: 10000, InputCost: 18000, SoilTypes: []string{"Loamy"}, Zones: []string{"Pune", "Nashik"}},
		{ID: "pomegranate_bhagwa", Name: "Pomegranate (Bhagwa)", DurationDays: 200, WaterRequirementMm: 1200, Temperature: TemperatureRange{18, 40}, BaseYieldTons: 10, BaseMarketPrice: 80000, InputCost: 80000, SoilTypes: []string{"Light", "Rocky", "Med"}, Zones: []string{"Solapur", "Nashik", "Ahmednagar"}},
		{ID: "grapes_thompson", Name: "Grapes (Thompson)", DurationDays: 140, WaterRequirementMm: 1000, Temperature: TemperatureRange{12, 35}, BaseYieldTons: 12, BaseMarketPrice: 60000, InputCost: 150000, SoilTypes: []string{"Light", "Medium"}, Zones: []string{"Nashik", "Sangli"}},
		{ID: "banana_grand_naine", Name: "Banana (G-9)", DurationDays: 365, WaterRequirementMm: 2200, Temperature: TemperatureRange{20, 40}, BaseYieldTons: 25, BaseMarketPrice: 12000, InputCost: 60000, SoilTypes: []string{"Black", "Loamy"}, Zones: []string{"Jalgaon", "Solapur"}},
		{ID: "mango_kesar", Name: "Mango (Kesar)", DurationDays: 120, WaterRequirementMm: 800, Temperature: TemperatureRange{20, 40}, BaseYieldTons: 5, BaseMarketPrice: 70000, InputCost: 30000, SoilTypes: []string{"Rocky", "Laterite"}, Zones: []string{"Marathwada", "Konkan"}},
		{ID: "papaya_taiwan", Name: "Papaya (Taiwan 786)", DurationDays: 300, WaterRequirementMm: 1500, Temperature: TemperatureRange{22, 40}, BaseYieldTons: 40, BaseMarketPrice: 10000, InputCost: 50000, SoilTypes: []string{"Well Drained"}, Zones: []string{GeneralZone}},
		{ID: "watermelon_sugar", Name: "Watermelon (Sugar Baby)", DurationDays: 80, WaterRequirementMm: 450, Temperature: TemperatureRange{25, 38}, BaseYieldTons: 20, BaseMarketPrice: 8000, InputCost: 25000, SoilTypes: []string{"Sandy Loam"}, Zones: []string{GeneralZone}, Category: Vegetable},
	}
}
