package llm

// Provider-neutral chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one role-tagged entry in the transcript sent to a generation
// provider.
type Message struct {
	Role    string
	Content string
}
