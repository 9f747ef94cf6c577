package workflow

import "encoding/json"

// Item is one row in the launcher's result list.
type Item struct {
	Title     string            `json:"title"`
	Subtitle  string            `json:"subtitle"`
	Arg       string            `json:"arg,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// Output is the launcher's script-filter document.
type Output struct {
	Items []Item `json:"items"`
}

// Workflow variable values the launcher routes on.
const (
	actionExecute    = "execute_prompt"
	actionInputParam = "input_param"
)

func single(title, subtitle string) Output {
	return Output{Items: []Item{{Title: title, Subtitle: subtitle}}}
}

// argsPayload encodes the argument object carried by an execute item.
func argsPayload(args map[string]any) string {
	if args == nil {
		args = map[string]any{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "{}"
	}
	return string(data)
}
