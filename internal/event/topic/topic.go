package topic

import "strings"

// Topic names an event with dot-separated segments, such as
// "calc.result". As a subscription pattern a segment may be "*", which
// matches one segment, or "**", which matches any number of them.
type Topic string

const (
	sep      = "."
	anyOne   = "*"
	anyDepth = "**"
)

func (t Topic) String() string {
	return string(t)
}

// IsValid reports whether t is non-empty with no empty segments.
func (t Topic) IsValid() bool {
	return t != "" && !strings.Contains(sep+string(t)+sep, sep+sep)
}

// IsWildcard reports whether t contains a wildcard segment and so can
// only be used as a pattern.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), anyOne)
}

// Matches reports whether t is matched by pattern.
func (t Topic) Matches(pattern Topic) bool {
	return match(split(t), split(pattern))
}

func split(t Topic) []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), sep)
}

func match(name, pattern []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		if head == anyDepth {
			for skip := 0; skip <= len(name); skip++ {
				if match(name[skip:], pattern[1:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 || (head != anyOne && head != name[0]) {
			return false
		}
		name, pattern = name[1:], pattern[1:]
	}
	return len(name) == 0
}
