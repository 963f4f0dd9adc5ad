package config

import "sort"

// Presets reproduce the scenes the recorded MPC runs were solved in.
var Presets = map[string]*Config{
	"panda/scene1": {
		Robot: DefaultRobot, ConfigDim: 7, StateDim: 14, ControlDim: 7,
		SafetyThreshold: DefaultSafetyThreshold, SpeedLimit: DefaultSpeedLimit, Workers: DefaultWorkers,
		Targets: []TargetConfig{
			{Name: "target1", Frame: "panda2_rightfinger", Translation: []float64{0, -0.4, 1.5}},
			{Name: "target2", Frame: "panda2_rightfinger", Translation: []float64{0, 0, 1.5}},
		},
	},
	"panda/reaching": {
		Robot: DefaultRobot, ConfigDim: 7, StateDim: 14, ControlDim: 7,
		SafetyThreshold: DefaultSafetyThreshold, SpeedLimit: DefaultSpeedLimit, Workers: DefaultWorkers,
		Targets: []TargetConfig{
			{Name: "target", Frame: "panda2_rightfinger", Translation: []float64{0, 0, 0.85}},
		},
		Obstacles: []ObstacleConfig{
			{Name: "obstacle", Translation: []float64{0, -0.2, 1.2}, Radius: 0.1},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
