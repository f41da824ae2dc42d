package agent

// Message represents a conversation message in the Anthropic API format
type Message struct {
	Role    string         `json:"role"` // "user" or "assistant"
	Content []ContentBlock `json:"content"`
}

// ContentBlock is the interface for different content types
type ContentBlock interface {
	BlockType() string
}

// TextBlock represents plain text content
type TextBlock struct {
	Type string `json:"type"` // Always "text"
	Text string `json:"text"`
}

func (t TextBlock) BlockType() string { return "text" }

// ToolUseBlock represents a tool invocation by the assistant
type ToolUseBlock struct {
	Type  string         `json:"type"` // Always "tool_use"
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

func (t ToolUseBlock) BlockType() string { return "tool_use" }

// ToolResultBlock represents the result of a tool execution, sent back to
// the model in a user turn
type ToolResultBlock struct {
	Type      string `json:"type"` // Always "tool_result"
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

func (t ToolResultBlock) BlockType() string { return "tool_result" }

// Text builds a message holding a single text block.
func Text(role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentBlock{TextBlock{Type: "text", Text: text}},
	}
}

// FirstToolUse returns the first tool_use block in the content, or nil if
// the content contains none.
func FirstToolUse(content []ContentBlock) *ToolUseBlock {
	for _, block := range content {
		if toolUse, ok := block.(ToolUseBlock); ok {
			return &toolUse
		}
	}
	return nil
}

// JoinText concatenates all text blocks in the content, in order.
func JoinText(content []ContentBlock) string {
	var out string
	for _, block := range content {
		if text, ok := block.(TextBlock); ok {
			out += text.Text
		}
	}
	return out
}

// UsageStats tracks API token usage
type UsageStats struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add accumulates usage from another stats object
func (u *UsageStats) Add(other UsageStats) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
