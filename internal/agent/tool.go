package agent

// Tool declares a function the model may call, in JSON Schema form
type Tool struct {
	// Name is the unique identifier for this tool
	Name string `json:"name"`

	// Description explains what the tool does (3-4+ sentences recommended)
	Description string `json:"description"`

	// InputSchema defines the expected input format (JSON Schema)
	InputSchema map[string]any `json:"input_schema"`
}

// BuildJSONSchema is a helper to construct JSON Schema objects
func BuildJSONSchema(schemaType string, properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       schemaType,
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// PropertyString creates a string property definition
func PropertyString(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}

// PropertyEnum creates an enum property definition
func PropertyEnum(description string, values []string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
		"enum":        values,
	}
}
