package core

import (
	"fmt"
	"strings"
)

const maxTopicLength = 65535

type TopicName struct {
	Value string `json:"value"`
}

// NewName validates a concrete topic such as "todos/42". Wildcards are not allowed.
func NewName(value string) (*TopicName, error) {
	if err := checkTopicLength("topic name", value); err != nil {
		return nil, err
	}

	if strings.ContainsAny(value, "#+") {
		return nil, fmt.Errorf("topic name: %s must not contain wildcards", value)
	}

	return &TopicName{value}, nil
}

// IsServerSpecific reports whether the topic is reserved ($SYS/...).
func (t *TopicName) IsServerSpecific() bool {
	return strings.HasPrefix(t.Value, "$")
}

// TopicFilter selects topic names using MQTT wildcards: "+" matches exactly
// one level, a trailing "#" matches the parent level and everything below it.
type TopicFilter struct {
	Value string `json:"value"`
}

func NewFilter(value string) (*TopicFilter, error) {
	if err := checkTopicLength("topic filter", value); err != nil {
		return nil, err
	}

	levels := strings.Split(value, "/")
	for i, level := range levels {
		switch {
		case level == "+":
		case level == "#":
			if i != len(levels)-1 {
				return nil, fmt.Errorf("topic filter: %s '#' must be the last level", value)
			}
		case strings.ContainsAny(level, "#+"):
			return nil, fmt.Errorf("topic filter: %s wildcards must occupy a whole level", value)
		}
	}

	return &TopicFilter{value}, nil
}

func (f *TopicFilter) Match(name *TopicName) bool {
	filterLevels := strings.Split(f.Value, "/")
	nameLevels := strings.Split(name.Value, "/")

	// reserved topics are only matched when named explicitly
	if name.IsServerSpecific() && (filterLevels[0] == "#" || filterLevels[0] == "+") {
		return false
	}

	for i, level := range filterLevels {
		if level == "#" {
			return true
		}

		if i >= len(nameLevels) {
			return false
		}

		if level != "+" && level != nameLevels[i] {
			return false
		}
	}

	return len(filterLevels) == len(nameLevels)
}

func checkTopicLength(kind string, value string) error {
	if value == "" {
		return fmt.Errorf("%s: cannot be empty", kind)
	}

	if len(value) > maxTopicLength {
		return fmt.Errorf("%s: cannot have more than %d bytes", kind, maxTopicLength)
	}

	return nil
}
