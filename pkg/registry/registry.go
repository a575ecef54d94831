// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"
)

var activityIDPattern = regexp.MustCompile(`^[a-z]+\.[a-z]+\.[a-z-]+$`)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*ActivityRegistry, error) {
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse activity registry: %w", err)
	}
	return &reg, nil
}

// Find returns the activity serving taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Check reports every malformed entry: bad ids, duplicate task types and
// unparsable timeouts.
func (r *ActivityRegistry) Check() []error {
	var problems []error
	seen := make(map[string]string, len(r.Activities))

	for _, a := range r.Activities {
		if !activityIDPattern.MatchString(a.ID) {
			problems = append(problems, fmt.Errorf("%s: id must follow domain.subdomain.action", a.ID))
		}
		if a.TaskType == "" {
			problems = append(problems, fmt.Errorf("%s: taskType is empty", a.ID))
		} else if prev, dup := seen[a.TaskType]; dup {
			problems = append(problems, fmt.Errorf("%s: taskType %q already used by %s", a.ID, a.TaskType, prev))
		}
		seen[a.TaskType] = a.ID

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				problems = append(problems, fmt.Errorf("%s: invalid timeout %q", a.ID, a.Timeout))
			}
		}
	}
	return problems
}
