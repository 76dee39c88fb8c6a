package services

import "fmt"

// Conversation policy limits. These are policy constants, not configuration:
// changing them changes the product, so they live in code.
const (
	MessagesLimit      = 30
	OffTopicCountLimit = 3
)

// RefusalSentinel is the marker the generation model is instructed to emit
// when a question cannot be answered from the supplied context. The prompt
// template and the detector share this one constant; detection is
// case-insensitive.
const RefusalSentinel = "Null"

const contextPromptTemplate = `Your task is to engage in this conversation. Answer the questions strictly based on the provided context and the current conversation. Your answers must be as short as possible.
For off-topic, offensive messages or irrelevant questions, reply with: "%s".

Context: %s`

// ContextPrompt builds the system instruction that grounds the model in the
// retrieved context.
func ContextPrompt(context string) string {
	return fmt.Sprintf(contextPromptTemplate, RefusalSentinel, context)
}

// GeneralContext is the domain preamble seeded into every new chat.
const GeneralContext = `
This conversation is about Hani, a Software/Data Engineer. You're having this conversation to answer people's questions
about Hani's experience and professional life.`

// AIFirstMessage is the greeting seeded into every new chat.
const AIFirstMessage = `Welcome to the chat, feel free to ask any question about Hani's experience and work, and I'll do my best to answer.`

const offTopicWarningTemplate = `It is whether your message is off-topic or I do not have enough information to answer it.
You have sent %d out of %d off-topic messages. After the 3rd instance, this chat will be terminated.

If you think this is a mistake, please rephrase your question and ask it again.`

// OffTopicWarning is the response shown in place of a refused generation,
// interpolating the counter value after the increment.
func OffTopicWarning(count int) string {
	return fmt.Sprintf(offTopicWarningTemplate, count, OffTopicCountLimit)
}

// Terminal responses for the two policy limits.
const (
	LimitOffTopicMessage = "You reached 3 out of topic messages. This chat is terminated."
	LimitLengthMessage   = "You reached the length limit for a single conversation. This conversation has been terminated."
)
