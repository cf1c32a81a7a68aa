package session

// ResultAction is the closed set of navigation outcomes a renderer can
// request from the engine.
type ResultAction int

const (
	// ActionStay re-renders the current level.
	ActionStay ResultAction = iota
	// ActionNavigate moves to Target.
	ActionNavigate
	// ActionBack pops one navigation level.
	ActionBack
	// ActionHome returns to the main menu.
	ActionHome
	// ActionQuit requests session termination, subject to confirmation.
	ActionQuit
	// ActionSwitchMode changes the interaction mode to Mode.
	ActionSwitchMode
)

// InputResult is what a renderer hands back to the engine after processing
// one line of input.
type InputResult struct {
	Action ResultAction
	Target string
	Mode   Mode
	// Message is already-printed feedback, kept for tests and logging.
	Message string
}

func stay(message string) InputResult {
	return InputResult{Action: ActionStay, Message: message}
}
