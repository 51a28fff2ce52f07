package entity

// Prompt is a system and user message pair sent to the completion endpoint
type Prompt struct {
	System string
	User   string
}
