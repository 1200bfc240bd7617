package chat

// DefaultTools is the sample tool set new sessions start with.
func DefaultTools() []ToolDefinition {
	return []ToolDefinition{{
		Type: "function",
		Function: ToolFunction{
			Name:        "search",
			Description: "Use this tool to search the web for relevant information.",
			Parameters: &Object{
				{Key: "type", Value: "object"},
				{Key: "properties", Value: Object{
					{Key: "query", Value: Object{
						{Key: "type", Value: "string"},
						{Key: "description", Value: "The search query string."},
					}},
				}},
				{Key: "required", Value: []any{"query"}},
			},
		},
	}}
}

const rayleigh = "The sky appears blue due to a phenomenon called Rayleigh scattering, which is the scattering of sunlight by the molecules and tiny particles in Earth's atmosphere."

// DefaultMessages is the sample conversation new sessions start with. It
// exercises a system prompt, a reasoning turn with a tool call, a tool
// result and a final answer.
func DefaultMessages() []Message {
	return []Message{
		{Role: RoleSystem, Content: Ptr("You are a helpful assistant.")},
		{Role: RoleUser, Content: Ptr("Why is the sky blue?")},
		{
			Role:             RoleAssistant,
			ReasoningContent: "The user asked why the sky is blue. I can use the search tool to find relevant information.",
			ToolCalls: []ToolCall{{
				Type: "function",
				Function: FunctionCall{
					Name:      "search",
					Arguments: Object{{Key: "query", Value: "Why is the sky blue?"}},
				},
			}},
		},
		{
			Role:    RoleTool,
			Name:    "search",
			Content: Ptr(rayleigh),
		},
		{
			Role:             RoleAssistant,
			ReasoningContent: "The search tool returned the following information: The sky appears blue due to a phenomenon called Rayleigh scattering.",
			Content:          Ptr(rayleigh),
		},
	}
}

// DefaultConversation bundles DefaultMessages and DefaultTools.
func DefaultConversation() Conversation {
	return Conversation{Messages: DefaultMessages(), Tools: DefaultTools()}
}
