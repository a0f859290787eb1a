package config

var defaultConfig = Config{
	Outputs:     []Output{},
	WindowRules: []WindowRule{},
}

type Config struct {
	Outputs     []Output     `json:"outputs" yaml:"outputs"`
	WindowRules []WindowRule `json:"window_rules" yaml:"window_rules"`
}

// Output seeds a display for the windowed development backend; under the
// real backend outputs come from hotplug instead.
type Output struct {
	Name   string  `json:"name" yaml:"name"`
	X      int     `json:"x" yaml:"x"`
	Y      int     `json:"y" yaml:"y"`
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Scale  float64 `json:"scale" yaml:"scale"`
	Tags   []Tag   `json:"tags" yaml:"tags"`
}

type Tag struct {
	Name   string `json:"name" yaml:"name"`
	Layout string `json:"layout" yaml:"layout"` // [master_stack, grid]
}

// WindowRule pairs a match condition with state overrides applied right
// after a window maps.
type WindowRule struct {
	Cond RuleCondition `json:"cond" yaml:"cond"`
	Rule Rule          `json:"rule" yaml:"rule"`
}

type RuleCondition struct {
	Any []RuleCondition `json:"any,omitempty" yaml:"any,omitempty"`
	All []RuleCondition `json:"all,omitempty" yaml:"all,omitempty"`

	Classes []string `json:"classes,omitempty" yaml:"classes,omitempty"`
	Titles  []string `json:"titles,omitempty" yaml:"titles,omitempty"`
	Tags    []uint32 `json:"tags,omitempty" yaml:"tags,omitempty"`
}

type Rule struct {
	Output                *string  `json:"output,omitempty" yaml:"output,omitempty"`
	Tags                  []uint32 `json:"tags,omitempty" yaml:"tags,omitempty"`
	Floating              *bool    `json:"floating,omitempty" yaml:"floating,omitempty"`
	FullscreenOrMaximized *string  `json:"fullscreen_or_maximized,omitempty" yaml:"fullscreen_or_maximized,omitempty"` // [neither, fullscreen, maximized]
	Width                 *int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height                *int     `json:"height,omitempty" yaml:"height,omitempty"`
	X                     *int     `json:"x,omitempty" yaml:"x,omitempty"`
	Y                     *int     `json:"y,omitempty" yaml:"y,omitempty"`
}
