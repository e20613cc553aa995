package engineconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// EngineConfigPath is the path to the engine config file, relative to the process working directory.
const EngineConfigPath = "config/playground.json"

// EnginePrefs holds engine-only preferences (window, overlays, which variant to open, where
// downloaded textures and editable shaders live). Persisted across runs.
type EnginePrefs struct {
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
	TargetFPS    int    `json:"target_fps"`
	MSAA         bool   `json:"msaa"`
	ShowFPS      bool   `json:"show_fps"`
	ShowLog      bool   `json:"show_log"`
	Variant      string `json:"variant"`
	ScenePath    string `json:"scene_path,omitempty"`
	TextureCache string `json:"texture_cache"`
	ShaderDir    string `json:"shader_dir,omitempty"`
	HotReload    bool   `json:"hot_reload"`
	GridVisible  bool   `json:"grid_visible"`
}

// Default returns default engine preferences (textured variant, overlays on, no shader overrides).
func Default() EnginePrefs {
	return EnginePrefs{
		WindowWidth:  1280,
		WindowHeight: 720,
		TargetFPS:    60,
		MSAA:         true,
		ShowFPS:      true,
		ShowLog:      true,
		Variant:      "textured",
		TextureCache: "assets/textures/downloaded",
		HotReload:    false,
		GridVisible:  true,
	}
}

// Load reads engine preferences from config/playground.json. If the file is missing or invalid,
// returns Default() and does not create a file.
func Load() (EnginePrefs, error) {
	return LoadFrom(EngineConfigPath)
}

// LoadFrom is Load for an explicit path. Keys missing from the file keep their defaults.
func LoadFrom(path string) (EnginePrefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), nil
	}
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return Default(), nil
	}
	return p.sanitized(), nil
}

// Save writes engine preferences to config/playground.json, creating the config directory if needed.
func Save(p EnginePrefs) error {
	return SaveTo(EngineConfigPath, p)
}

// SaveTo is Save for an explicit path.
func SaveTo(path string, p EnginePrefs) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// sanitized replaces values the window cannot use with defaults.
func (p EnginePrefs) sanitized() EnginePrefs {
	d := Default()
	if p.WindowWidth <= 0 || p.WindowHeight <= 0 {
		p.WindowWidth, p.WindowHeight = d.WindowWidth, d.WindowHeight
	}
	if p.TargetFPS <= 0 {
		p.TargetFPS = d.TargetFPS
	}
	if p.Variant == "" {
		p.Variant = d.Variant
	}
	if p.TextureCache == "" {
		p.TextureCache = d.TextureCache
	}
	return p
}
