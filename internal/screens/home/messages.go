package home

// focusDifficultyMsg moves focus from the category menu to the difficulty
// menu.
type focusDifficultyMsg struct{}

// generateMsg requests a generation for the current selection.
type generateMsg struct{}

// generatedMsg is sent when a generation finishes, successfully or not.
type generatedMsg struct {
	err error
}
