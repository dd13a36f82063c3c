package view

import (
	"fmt"
	"strconv"
	"strings"
)

type Action string

const (
	ActionCategory Action = "cat"
	ActionMenu     Action = "menu"
	ActionPage     Action = "page"
	ActionToggle   Action = "tg"
	ActionRemove   Action = "rm"
	ActionInfo     Action = "info"
	ActionClear    Action = "clear"
	ActionGenerate Action = "gen"
	ActionNoop     Action = "noop"
)

// Callback is the decoded form of inline button data.
type Callback struct {
	Action   Action
	ID       int
	Page     int
	Category string
}

func categoryData(category string) string { return string(ActionCategory) + ":" + category }
func productData(a Action, id int) string   { return fmt.Sprintf("%s:%d", a, id) }

// ParseCallback decodes data produced by the renderers in this package.
func ParseCallback(data string) (Callback, error) {
	action, arg, _ := strings.Cut(data, ":")
	cb := Callback{Action: Action(action)}

	switch cb.Action {
	case ActionCategory:
		if arg == "" {
			return Callback{}, fmt.Errorf("callback %q: missing category", data)
		}
		cb.Category = arg
	case ActionToggle, ActionRemove, ActionInfo:
		id, err := strconv.Atoi(arg)
		if err != nil {
			return Callback{}, fmt.Errorf("callback %q: bad product id: %w", data, err)
		}
		cb.ID = id
	case ActionPage:
		page, err := strconv.Atoi(arg)
		if err != nil || page < 0 {
			return Callback{}, fmt.Errorf("callback %q: bad page", data)
		}
		cb.Page = page
	case ActionMenu, ActionClear, ActionGenerate, ActionNoop:
	default:
		return Callback{}, fmt.Errorf("callback %q: unknown action", data)
	}
	return cb, nil
}
