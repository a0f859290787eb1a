package comp

import "github.com/nixith/pinnacle/internal/geom"

// RuleCondition matches newly mapped windows. Leaf fields are OR within
// themselves (any listed class matches) and AND across each other; Any
// and All compose conditions recursively.
type RuleCondition struct {
	Any []RuleCondition
	All []RuleCondition

	Classes []string
	Titles  []string
	Tags    []TagID
}

// Rule overrides initial window placement. Nil fields leave the mapped
// state alone.
type Rule struct {
	Output                *string
	Tags                  []TagID
	Floating              *bool
	FullscreenOrMaximized *FullscreenOrMaximized
	Size                  *geom.Size
	Location              *geom.Point
}

type RuleEntry struct {
	Cond RuleCondition
	Rule Rule
}

// AddWindowRule appends a rule; rules are consulted in insertion order
// and every matching rule applies, later ones winning on conflicts.
func (s *State) AddWindowRule(cond RuleCondition, rule Rule) {
	s.rules = append(s.rules, RuleEntry{Cond: cond, Rule: rule})
}

func (c RuleCondition) matches(s *State, win *Window) bool {
	if len(c.Any) > 0 {
		hit := false
		for _, sub := range c.Any {
			if sub.matches(s, win) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, sub := range c.All {
		if !sub.matches(s, win) {
			return false
		}
	}
	if len(c.Classes) > 0 && !containsString(c.Classes, win.Class) {
		return false
	}
	if len(c.Titles) > 0 && !containsString(c.Titles, win.Title) {
		return false
	}
	if len(c.Tags) > 0 {
		hit := false
		for _, id := range c.Tags {
			if win.HasTag(id) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// applyWindowRules runs once per newly mapped window, before its first
// layout pass.
func (s *State) applyWindowRules(win *Window) {
	for _, entry := range s.rules {
		if !entry.Cond.matches(s, win) {
			continue
		}
		s.applyRule(win, entry.Rule)
	}
}

func (s *State) applyRule(win *Window, rule Rule) {
	if rule.Output != nil {
		// Retag onto the named output's active tags.
		if op := s.outputs[*rule.Output]; op != nil {
			if active := s.activeTags(op); len(active) > 0 {
				win.Tags = append([]TagID(nil), active...)
			} else if len(op.Tags) > 0 {
				win.Tags = []TagID{op.Tags[0]}
			}
		}
	}
	if len(rule.Tags) > 0 {
		var tags []TagID
		for _, id := range rule.Tags {
			if s.tags[id] != nil {
				tags = append(tags, id)
			}
		}
		if len(tags) > 0 {
			win.Tags = tags
		}
	}
	if rule.Floating != nil && win.Mode.Floating != *rule.Floating {
		win.Mode.Floating = *rule.Floating
	}
	if rule.FullscreenOrMaximized != nil {
		win.FullscreenOrMaximized = *rule.FullscreenOrMaximized
	}

	rect, _ := s.space.Geometry(win.ID)
	if base := win.Mode.FloatingRect; base != nil {
		rect = *base
	}
	changed := false
	if rule.Size != nil {
		rect.Size = *rule.Size
		changed = true
	}
	if rule.Location != nil {
		rect.Point = *rule.Location
		changed = true
	}
	if changed {
		win.Mode.FloatingRect = &rect
		if win.Mode.Floating {
			s.requestResize(win, rect)
		}
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
