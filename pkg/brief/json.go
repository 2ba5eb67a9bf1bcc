package brief

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
)

// unmarshalLenient unmarshals model output, repairing malformed JSON
// before retrying. Only syntax errors trigger a repair; structural
// mismatches are returned as-is.
func unmarshalLenient(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}
