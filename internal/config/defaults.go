package config

// Default возвращает эталонные параметры генерации.
// Каждый вызов создаёт новый независимый объект.
func Default() *Config {
	return &Config{
		Width:  256,
		Height: 256,
		Seed:   "terragen",
		Noise:  NoiseConfig{Backend: "perlin"},
		Terrain: TerrainSettings{
			Base:           NoiseSettings{Octaves: 6, Persistence: 0.5, Lacunarity: 2.0, Scale: 96},
			Mountain:       NoiseSettings{Octaves: 5, Persistence: 0.5, Lacunarity: 2.1, Scale: 64},
			Ocean:          NoiseSettings{Octaves: 3, Persistence: 0.5, Lacunarity: 2.0, Scale: 48},
			Temperature:    NoiseSettings{Octaves: 3, Persistence: 0.5, Lacunarity: 2.0, Scale: 128},
			Humidity:       NoiseSettings{Octaves: 4, Persistence: 0.5, Lacunarity: 2.0, Scale: 80},
			MountainWeight: 0.3,
			OceanLevel:     0.35,
			TempOffset:     0,
			HumidityOffset: 0,
		},
		Erosion: DefaultErosion(),
		Biomes:  BiomeConfig{Rules: DefaultBiomeRules()},
		Bands: HeightBands{
			DeepWaterMax:    0.20,
			ShallowWaterMax: 0.30,
			HighlandStart:   0.60,
			MountainStart:   0.80,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultErosion эталонные параметры эрозии: десятки тысяч капель
// и 0.2 × droplets термических проходов
func DefaultErosion() ErosionSettings {
	const droplets = 20000
	return ErosionSettings{
		Droplets:          droplets,
		ThermalIterations: ThermalPassesFor(droplets),
		ErosionStrength:   0.3,
		DepositionRate:    0.3,
		Talus:             1.0, // tan 45°
		Smoothness:        0.5,
		ThermalMode:       ThermalInPlace,
		MaxDropletSteps:   10000,
		CancelEvery:       1000,
		ProgressEvery:     1000,
	}
}

// DefaultBiomeRules таблица биомов по умолчанию. Порядок определяет
// приоритет при равных оценках.
func DefaultBiomeRules() []BiomeRule {
	return []BiomeRule{
		{Biome: "deep_water", MinHeight: -0.5, MaxHeight: 0.25, MinTemp: -0.5, MaxTemp: 1.5, MinHumidity: -0.5, MaxHumidity: 1.5, TransitionRange: 0.05},
		{Biome: "water", MinHeight: 0.15, MaxHeight: 0.37, MinTemp: -0.5, MaxTemp: 1.5, MinHumidity: -0.5, MaxHumidity: 1.5, TransitionRange: 0.05},
		{Biome: "beach", MinHeight: 0.33, MaxHeight: 0.42, MinTemp: 0.3, MaxTemp: 1.3, MinHumidity: -0.3, MaxHumidity: 1.3, TransitionRange: 0.03},
		{Biome: "desert", MinHeight: 0.38, MaxHeight: 0.75, MinTemp: 0.7, MaxTemp: 1.3, MinHumidity: -0.3, MaxHumidity: 0.35, TransitionRange: 0.1},
		{Biome: "savanna", MinHeight: 0.38, MaxHeight: 0.75, MinTemp: 0.65, MaxTemp: 1.2, MinHumidity: 0.2, MaxHumidity: 0.55, TransitionRange: 0.1},
		{Biome: "plains", MinHeight: 0.38, MaxHeight: 0.75, MinTemp: 0.45, MaxTemp: 0.85, MinHumidity: 0.2, MaxHumidity: 0.7, TransitionRange: 0.1},
		{Biome: "forest", MinHeight: 0.38, MaxHeight: 0.8, MinTemp: 0.4, MaxTemp: 0.8, MinHumidity: 0.45, MaxHumidity: 1.0, TransitionRange: 0.1},
		{Biome: "rainforest", MinHeight: 0.38, MaxHeight: 0.7, MinTemp: 0.7, MaxTemp: 1.3, MinHumidity: 0.55, MaxHumidity: 1.3, TransitionRange: 0.1},
		{Biome: "swamp", MinHeight: 0.36, MaxHeight: 0.5, MinTemp: 0.5, MaxTemp: 1.0, MinHumidity: 0.7, MaxHumidity: 1.3, TransitionRange: 0.08},
		{Biome: "taiga", MinHeight: 0.45, MaxHeight: 0.85, MinTemp: 0.2, MaxTemp: 0.6, MinHumidity: 0.3, MaxHumidity: 1.0, TransitionRange: 0.1},
		{Biome: "tundra", MinHeight: 0.4, MaxHeight: 0.9, MinTemp: -0.3, MaxTemp: 0.5, MinHumidity: -0.3, MaxHumidity: 0.6, TransitionRange: 0.1},
		{Biome: "mountains", MinHeight: 0.7, MaxHeight: 1.1, MinTemp: -0.2, MaxTemp: 1.2, MinHumidity: -0.3, MaxHumidity: 1.3, TransitionRange: 0.08},
		{Biome: "snow", MinHeight: 0.85, MaxHeight: 1.5, MinTemp: -0.5, MaxTemp: 0.55, MinHumidity: -0.5, MaxHumidity: 1.5, TransitionRange: 0.05},
	}
}
