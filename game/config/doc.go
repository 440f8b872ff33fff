// Package config manages Battleplanes rule presets.
//
// A preset is a JSON file in the configs directory; its file name without
// the extension is the config id used when creating a session. Each preset
// defines:
//   - Whether destroyed planes are revealed in the shooter's scrapbook
//   - Who places the first plane (you, opponent or random)
//   - How many rounds the opponent's fleet generator may take
//   - The messages shown for placements, hits, misses, kills and the end of a match
//
// Presets are validated with engine.ValidateGameConfig when loaded and when
// saved, and cached after the first load.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	hidden, err := manager.LoadConfig("hidden")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default preset is classic.json when present, otherwise the first valid
// preset in the directory, otherwise the built-in rules.
package config
