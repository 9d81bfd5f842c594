package formats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownAction is returned when a pose names an action the sprite lacks.
var ErrUnknownAction = errors.New("unknown sprite action")

// DirectionNames lists the eight facing directions in ACT order.
var DirectionNames = []string{"s", "sw", "w", "nw", "n", "ne", "e", "se"}

// MonsterActionNames names the action groups of monster sprites.
var MonsterActionNames = []string{"idle", "walk", "attack", "damage", "die", "attack2", "attack3", "special"}

// PlayerActionNames names the action groups of player sprites.
var PlayerActionNames = []string{
	"idle", "walk", "sit", "pickup", "standby", "attack", "damage",
	"die", "dead", "attack2", "attack3", "cast", "ready", "freeze",
}

// actionNames picks the naming table by group count: monsters have at most
// eight action groups.
func actionNames(actionCount int) []string {
	if actionCount/8 <= len(MonsterActionNames) {
		return MonsterActionNames
	}
	return PlayerActionNames
}

// ParseAction resolves a pose such as "walk", "walk:sw" or "17" to an action
// index. Named poses need eight directions per action group and face south
// when no direction is given.
func ParseAction(pose string, actionCount int) (int, error) {
	pose = strings.ToLower(strings.TrimSpace(pose))
	if n, err := strconv.Atoi(pose); err == nil {
		if n < 0 || n >= actionCount {
			return 0, fmt.Errorf("%w: index %d of %d", ErrUnknownAction, n, actionCount)
		}
		return n, nil
	}
	if actionCount < 8 || actionCount%8 != 0 {
		return 0, fmt.Errorf("%w: %q needs an 8-direction sprite, have %d actions", ErrUnknownAction, pose, actionCount)
	}

	name, dir, _ := strings.Cut(pose, ":")
	group := indexOf(actionNames(actionCount), name)
	if group < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	direction := 0
	if dir != "" {
		if direction = indexOf(DirectionNames, dir); direction < 0 {
			return 0, fmt.Errorf("%w: direction %q", ErrUnknownAction, dir)
		}
	}

	index := group*8 + direction
	if index >= actionCount {
		return 0, fmt.Errorf("%w: %q not present in %d actions", ErrUnknownAction, pose, actionCount)
	}
	return index, nil
}

// ActionName returns the pose string for index, the inverse of ParseAction.
func ActionName(index, actionCount int) string {
	if actionCount >= 8 && actionCount%8 == 0 {
		names := actionNames(actionCount)
		if group := index / 8; group < len(names) {
			return names[group] + ":" + DirectionNames[index%8]
		}
	}
	return strconv.Itoa(index)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
