package comp

import (
	"fmt"

	"github.com/nixith/pinnacle/internal/config"
	"github.com/nixith/pinnacle/internal/geom"
)

// SeedFromConfig populates the state from the startup configuration:
// outputs with their tags for the windowed backend, plus window rules.
func SeedFromConfig(s *State, cfg config.Config) error {
	for _, out := range cfg.Outputs {
		if _, err := s.AddOutput(out.Name, geom.NewRect(out.X, out.Y, out.Width, out.Height), out.Scale); err != nil {
			return fmt.Errorf("output %q: %w", out.Name, err)
		}
		for _, tag := range out.Tags {
			if _, err := s.AddTag(out.Name, tag.Name, tag.Layout); err != nil {
				return fmt.Errorf("output %q tag %q: %w", out.Name, tag.Name, err)
			}
		}
	}

	for _, wr := range cfg.WindowRules {
		rule, err := RuleFromConfig(wr.Rule)
		if err != nil {
			return err
		}
		s.AddWindowRule(CondFromConfig(wr.Cond), rule)
	}
	return nil
}

func CondFromConfig(c config.RuleCondition) RuleCondition {
	cond := RuleCondition{
		Classes: c.Classes,
		Titles:  c.Titles,
	}
	for _, id := range c.Tags {
		cond.Tags = append(cond.Tags, TagID(id))
	}
	for _, sub := range c.Any {
		cond.Any = append(cond.Any, CondFromConfig(sub))
	}
	for _, sub := range c.All {
		cond.All = append(cond.All, CondFromConfig(sub))
	}
	return cond
}

func RuleFromConfig(r config.Rule) (Rule, error) {
	rule := Rule{
		Output:   r.Output,
		Floating: r.Floating,
	}
	for _, id := range r.Tags {
		rule.Tags = append(rule.Tags, TagID(id))
	}

	if r.FullscreenOrMaximized != nil {
		var fm FullscreenOrMaximized
		switch *r.FullscreenOrMaximized {
		case "neither":
			fm = Neither
		case "fullscreen":
			fm = Fullscreen
		case "maximized":
			fm = Maximized
		default:
			return Rule{}, fmt.Errorf("window rule: unknown fullscreen_or_maximized %q", *r.FullscreenOrMaximized)
		}
		rule.FullscreenOrMaximized = &fm
	}

	if r.Width != nil && r.Height != nil {
		rule.Size = &geom.Size{W: *r.Width, H: *r.Height}
	}
	if r.X != nil && r.Y != nil {
		rule.Location = &geom.Point{X: *r.X, Y: *r.Y}
	}
	return rule, nil
}
