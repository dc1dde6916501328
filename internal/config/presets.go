package config

import "sort"

// Presets build fresh scenarios so callers may edit the result freely.
var Presets = map[string]func() *Config{
	"collision": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "collision"
		cfg.Gravity = [3]float64{}
		cfg.TMax = 2.0
		cfg.SaveCount = 100
		cfg.Particles = []ParticleConfig{
			{Radius: 0.5, Mass: 1, Position: [3]float64{-1, 0, 0}, Velocity: [3]float64{1, 0, 0}},
			{Radius: 0.5, Mass: 1, Position: [3]float64{1, 0, 0}, Velocity: [3]float64{-1, 0, 0}},
		}
		return cfg
	},
	"bounce": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "bounce"
		cfg.Damping = 5
		cfg.TMax = 3.0
		cfg.SaveCount = 200
		cfg.Particles = []ParticleConfig{
			{Radius: 0.5, Mass: 1, Position: [3]float64{0, 0, 2}},
		}
		cfg.Walls = []WallConfig{floor()}
		return cfg
	},
	"settle": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "settle"
		cfg.Damping = 100
		cfg.TMax = 2.0
		cfg.SaveCount = 500
		cfg.Particles = []ParticleConfig{
			{Radius: 0.5, Mass: 1, Position: [3]float64{0, 0, 0.6}},
		}
		cfg.Walls = []WallConfig{floor()}
		return cfg
	},
	"box": boxScenario,
	"box_hertz": func() *Config {
		cfg := boxScenario()
		cfg.Name = "box_hertz"
		cfg.ForceLaw = "hertz"
		cfg.Stiffness = 1e5
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// boxScenario drops a jittered 4x4x4 lattice of small spheres into a box.
// Damping stays zero because the pair dashpot term adds energy rather
// than removing it.
func boxScenario() *Config {
	cfg := DefaultConfig()
	cfg.Name = "box"
	cfg.Dt = 1e-5
	cfg.TMax = 0.5
	cfg.SaveCount = 1000
	cfg.Walls = box(1.2)
	cfg.Lattice = &LatticeConfig{
		Count:   [3]int{4, 4, 4},
		Spacing: 0.25,
		Origin:  [3]float64{0.2, 0.2, 0.3},
		Radius:  0.1,
		Mass:    0.0042,
		Jitter:  0.02,
		Seed:    1,
	}
	return cfg
}

func floor() WallConfig {
	return WallConfig{Normal: [3]float64{0, 0, -1}}
}

// box returns a floor and four side walls enclosing [0, l] in x and y.
func box(l float64) []WallConfig {
	return []WallConfig{
		floor(),
		{Normal: [3]float64{-1, 0, 0}},
		{Normal: [3]float64{1, 0, 0}, Anchor: [3]float64{l, 0, 0}},
		{Normal: [3]float64{0, -1, 0}},
		{Normal: [3]float64{0, 1, 0}, Anchor: [3]float64{0, l, 0}},
	}
}
