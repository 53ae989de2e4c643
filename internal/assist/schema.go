package assist

// Schema declares the output shape a generation request must conform to,
// mirroring the generative-language API's responseSchema: a type tag plus
// per-field type, optional enum constraint, and optional description.
type Schema struct {
	Type        string             `json:"type"` // OBJECT, ARRAY, STRING
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// Schema type tags.
const (
	TypeObject = "OBJECT"
	TypeArray  = "ARRAY"
	TypeString = "STRING"
)

// taskSchema is the single-task extraction shape: everything but notes is
// required.
func taskSchema(priorities []string) *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"name":     {Type: TypeString, Description: "short task name"},
			"assignee": {Type: TypeString, Description: "person responsible"},
			"dueDate":  {Type: TypeString, Description: "due date as YYYY-MM-DD"},
			"priority": {Type: TypeString, Enum: priorities},
			"notes":    {Type: TypeString, Description: "extra context, may be empty"},
		},
		Required: []string{"name", "assignee", "dueDate", "priority"},
	}
}

// subTaskListSchema is the goal-decomposition shape: a list of sub-tasks
// where only the name is required.
func subTaskListSchema() *Schema {
	return &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"name":     {Type: TypeString, Description: "short sub-task name"},
				"assignee": {Type: TypeString, Description: "person responsible, may be empty"},
				"dueDate":  {Type: TypeString, Description: "due date as YYYY-MM-DD, may be empty"},
			},
			Required: []string{"name"},
		},
	}
}
