package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/gaps/engine/core"
	"gopkg.in/yaml.v3"
)

// ApplicationLayer is the embedder's code driven by the frame loop. Returning
// an error from any method stops the engine.
type ApplicationLayer interface {
	// Start runs once, after the window and renderer are ready.
	Start() error
	// Update runs once per frame after every pending event is dispatched.
	// deltaTime is in seconds.
	Update(deltaTime float64) error
	// Render runs once per frame between the screen clear and the present.
	Render() error
	// Release runs once, when the loop is over or the engine is released.
	Release() error
}

// ApplicationFactory builds the application layer. It is invoked exactly once
// by New, after every engine subsystem exists.
type ApplicationFactory func() ApplicationLayer

type AssetsConfig struct {
	// Root of the asset tree.
	Path string `toml:"path" yaml:"path"`
	// Watch reports changes under Path as EVENT_CODE_ASSET_CHANGED.
	Watch bool `toml:"watch" yaml:"watch"`
}

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name" yaml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x" yaml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y" yaml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width" yaml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height" yaml:"start_height"`
	Resizable   bool   `toml:"resizable" yaml:"resizable"`
	VSync       bool   `toml:"vsync" yaml:"vsync"`
	// RGBA colour the screen is cleared to every frame.
	ClearColour [4]float32 `toml:"clear_colour" yaml:"clear_colour"`
	DepthTest   bool       `toml:"depth_test" yaml:"depth_test"`
	Blend       bool       `toml:"blend" yaml:"blend"`
	LogLevel    string     `toml:"log_level" yaml:"log_level"`
	// Upper bound of the delta time handed to Update, in seconds. Zero
	// disables the bound.
	MaxDeltaTime float64 `toml:"max_delta_time" yaml:"max_delta_time"`
	// LimitFrames sleeps away what is left of each frame at TargetFPS.
	LimitFrames bool         `toml:"limit_frames" yaml:"limit_frames"`
	TargetFPS   float64      `toml:"target_fps" yaml:"target_fps"`
	Assets      AssetsConfig `toml:"assets" yaml:"assets"`
}

func DefaultApplicationConfig() ApplicationConfig {
	return ApplicationConfig{
		Name:         "Gaps",
		StartPosX:    100,
		StartPosY:    100,
		StartWidth:   1280,
		StartHeight:  720,
		Resizable:    true,
		VSync:        true,
		ClearColour:  [4]float32{0.1, 0.1, 0.1, 1.0},
		DepthTest:    true,
		Blend:        true,
		LogLevel:     "info",
		MaxDeltaTime: 0.25,
		LimitFrames:  false,
		TargetFPS:    60,
		Assets: AssetsConfig{
			Path:  "Assets",
			Watch: false,
		},
	}
}

// LoadConfig reads a TOML or YAML file, chosen by extension, on top of
// DefaultApplicationConfig. Keys missing from the file keep their default.
func LoadConfig(path string) (ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&config)
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err = decoder.Decode(&config); errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return config, fmt.Errorf("%w: %s", core.ErrUnsupportedConfigFormat, path)
	}
	if err != nil {
		return config, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return config, nil
}
