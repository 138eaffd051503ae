package service

import (
	"encoding/json"
	"fmt"
	"os"

	"nefera/internal/domain"
)

// LoadRubric reads the rubric JSON document from disk. A missing file maps
// to ErrMissingRubric, malformed content to ErrRubricInvalid.
func LoadRubric(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingRubric, path)
		}
		return nil, fmt.Errorf("reading rubric %s: %w", path, err)
	}

	var rubric map[string]interface{}
	if err := json.Unmarshal(data, &rubric); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRubricInvalid, err)
	}
	if len(rubric) == 0 {
		return nil, fmt.Errorf("%w: rubric is empty", domain.ErrRubricInvalid)
	}
	return rubric, nil
}
