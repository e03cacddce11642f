package config

// EntitiesConfig is the root config for entities.json
type EntitiesConfig struct {
	Player       PlayerConfig     `json:"player"`
	Checkpoint   TriggerConfig    `json:"checkpoint"`
	Upgrade      TriggerConfig    `json:"upgrade"`
	Collectible  TriggerConfig    `json:"collectible"`
	Sign         TriggerConfig    `json:"sign"`
	Lantern      TriggerConfig    `json:"lantern"`
	Fade         FadeConfig       `json:"fade"`
	Sounds       SoundsConfig     `json:"sounds"`
	Text         TextConfig       `json:"text"`
	UpgradeTexts map[int32]string `json:"upgradeTexts"`
	SignTexts    map[int32]string `json:"signTexts"`
}

type PlayerConfig struct {
	Hitbox Rect   `json:"hitbox"`
	Color  string `json:"color"`
}

type Rect struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// TriggerConfig sizes and colours an entity the player touches.
type TriggerConfig struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Color       string  `json:"color"`
	ActiveColor string  `json:"activeColor,omitempty"`
}

type FadeConfig struct {
	Duration float64 `json:"duration"` // seconds
}

// SoundsConfig maps gameplay events to audio asset paths.
type SoundsConfig struct {
	Checkpoint string `json:"checkpoint"`
	Upgrade    string `json:"upgrade"`
	Collect    string `json:"collect"`
	Rollback   string `json:"rollback"`
}

type TextConfig struct {
	CharsPerSecond float64 `json:"charsPerSecond"`
	HoldSeconds    float64 `json:"holdSeconds"` // how long a finished non-tutorial text stays up
}
