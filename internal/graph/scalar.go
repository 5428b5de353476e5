package graph

import (
	"encoding/json"
	"fmt"
)

// JSONObject backs the JSON scalar: an opaque key-value blob stored verbatim
// on users and reports.
type JSONObject map[string]any

func (JSONObject) ImplementsGraphQLType(name string) bool {
	return name == "JSON"
}

func (j *JSONObject) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case map[string]any:
		*j = v
		return nil
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot unmarshal %T as JSON object", input)
	}
}

func (j JSONObject) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(j))
}

// extraResolver wraps a stored extra blob for the nullable JSON field.
func extraResolver(extra map[string]any) *JSONObject {
	if len(extra) == 0 {
		return nil
	}
	obj := JSONObject(extra)
	return &obj
}
