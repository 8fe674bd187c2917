package entities

// KindInfo describes a built-in event kind.
type KindInfo struct {
	Name        EventKind
	Description string
}

// DefaultEventKinds are the built-in event kinds, in display order.
var DefaultEventKinds = []KindInfo{
	{Name: EventKindBattle, Description: "Battles, sieges, campaigns"},
	{Name: EventKindReign, Description: "Start of a reign, dynasty or office"},
	{Name: EventKindFounding, Description: "Cities, states, orders and institutions founded"},
	{Name: EventKindBirth, Description: "Births of people"},
	{Name: EventKindDeath, Description: "Deaths of people"},
	{Name: EventKindTreaty, Description: "Treaties, alliances, accords"},
	{Name: EventKindOther, Description: "Anything else worth a place on the timeline"},
}

// DefaultKindNames returns just the names of default kinds for quick lookup.
func DefaultKindNames() []string {
	names := make([]string, len(DefaultEventKinds))
	for i, k := range DefaultEventKinds {
		names[i] = string(k.Name)
	}
	return names
}

// IsDefaultKind checks if a kind name is built in.
func IsDefaultKind(name string) bool {
	for _, k := range DefaultEventKinds {
		if string(k.Name) == name {
			return true
		}
	}
	return false
}
