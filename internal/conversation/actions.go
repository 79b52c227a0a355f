package conversation

// Action is the closed set of requests available once a trip is planned.
// Actions are idempotent: none mutate trip fields, and repeating a save
// simply appends another record.
type Action int

const (
	ActionFuel Action = iota
	ActionCafes
	ActionHotels
	ActionSave
	ActionMapLink
	ActionMapFile
	ActionMyTrips
)

// Label returns the keyboard label shown for the action
func (a Action) Label() string {
	switch a {
	case ActionFuel:
		return "Fuel needed"
	case ActionCafes:
		return "Cafes every 100 km"
	case ActionHotels:
		return "Hotels every 100 km"
	case ActionSave:
		return "Save trip"
	case ActionMapLink:
		return "Map link"
	case ActionMapFile:
		return "Map file (KML)"
	case ActionMyTrips:
		return "My trips"
	default:
		return "unknown"
	}
}

// allActions lists every action in keyboard order
var allActions = []Action{
	ActionFuel,
	ActionCafes,
	ActionHotels,
	ActionSave,
	ActionMapLink,
	ActionMapFile,
	ActionMyTrips,
}

// actionsByLabel is the single dispatch table from message text to action
var actionsByLabel = func() map[string]Action {
	m := make(map[string]Action, len(allActions))
	for _, a := range allActions {
		m[a.Label()] = a
	}
	return m
}()

// ActionFromLabel resolves a message to an action, if it names one
func ActionFromLabel(text string) (Action, bool) {
	a, ok := actionsByLabel[text]
	return a, ok
}
