package config

// PhysicsConfig is the root config for physics.json
type PhysicsConfig struct {
	Display  DisplayConfig   `json:"display"`
	Physics  PhysicsSettings `json:"physics"`
	Movement MovementConfig  `json:"movement"`
	Jump     JumpConfig      `json:"jump"`
	Dash     DashConfig      `json:"dash"`
	Clock    ClockConfig     `json:"clock"`
	Camera   CameraConfig    `json:"camera"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
}

type PhysicsSettings struct {
	Gravity      float64 `json:"gravity"`      // px/s², pulls toward -Y
	MinFallSpeed float64 `json:"minFallSpeed"` // px/s, most negative vertical velocity
}

type MovementConfig struct {
	MaxSpeed float64 `json:"maxSpeed"` // px/s
	Blend    float64 `json:"blend"`    // fraction of the target speed taken per frame
}

type JumpConfig struct {
	Force  float64 `json:"force"`  // px/s
	Window float64 `json:"window"` // seconds after leaving the ground the jump may be held
}

type DashConfig struct {
	Speed    float64 `json:"speed"`
	Cooldown float64 `json:"cooldown"`
}

// ClockConfig lists the countdown length for each display radix.
type ClockConfig struct {
	Modes []ClockModeConfig `json:"modes"`
}

type ClockModeConfig struct {
	Radix   int     `json:"radix"`
	Seconds float64 `json:"seconds"`
}

var defaultClockSeconds = map[int]float64{2: 8, 3: 9, 4: 16}

// MaxSeconds returns the countdown length for a radix, falling back to
// the built-in table when the radix is not configured.
func (c ClockConfig) MaxSeconds(radix int) float64 {
	for _, m := range c.Modes {
		if m.Radix == radix && m.Seconds > 0 {
			return m.Seconds
		}
	}
	if s, ok := defaultClockSeconds[radix]; ok {
		return s
	}
	return defaultClockSeconds[2]
}

type CameraConfig struct {
	Smoothing float64 `json:"smoothing"` // 1/s, higher follows faster
}
