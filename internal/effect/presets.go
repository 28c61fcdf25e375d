package effect

// Preset is a named, read-only export configuration.
type Preset struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Settings    ExportSettings `json:"settings"`
}

// Presets is the fixed catalog offered to clients.
var Presets = []Preset{
	{
		ID:          "youtube",
		Name:        "YouTube",
		Description: "Full HD landscape, 1920x1080 at 30 fps",
		Settings:    ExportSettings{Width: 1920, Height: 1080, FPS: 30, Format: "mp4", Quality: 85},
	},
	{
		ID:          "shorts",
		Name:        "YouTube Shorts / TikTok",
		Description: "Vertical 1080x1920 at 30 fps",
		Settings:    ExportSettings{Width: 1080, Height: 1920, FPS: 30, Format: "mp4", Quality: 85},
	},
	{
		ID:          "instagram",
		Name:        "Instagram",
		Description: "Square 1080x1080 at 30 fps",
		Settings:    ExportSettings{Width: 1080, Height: 1080, FPS: 30, Format: "mp4", Quality: 85},
	},
	{
		ID:          "custom",
		Name:        "Custom",
		Description: "Caller-provided dimensions and encoding",
		Settings:    DefaultExportSettings(),
	},
}

// PresetByID looks up a catalog entry. The second return is false when
// the id is unknown.
func PresetByID(id string) (Preset, bool) {
	for _, p := range Presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
