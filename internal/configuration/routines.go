package configuration

import (
	"fmt"
)

// RoutineConfig is a named autonomous routine. It plays the stored program
// Program (defaults to the ID) and continues with the routine Then, if set.
type RoutineConfig struct {
	ID string `json:"id"`
	// Source is an authoring format file compiled into Program
	Source  string `json:"source"`
	Program string `json:"program"`
	Then    string `json:"then"`
}

// ProgramKey is the storage key of the routine's program
func (r RoutineConfig) ProgramKey() string {
	if len(r.Program) > 0 {
		return r.Program
	}
	return r.ID
}

func (c *Configuration) FindRoutine(id string) (RoutineConfig, bool) {
	for _, routine := range c.Routines {
		if routine.ID == id {
			return routine, true
		}
	}
	return RoutineConfig{}, false
}

// ResolveRoutine returns the program keys played for the routine id, following
// its then-chain. The configuration must be validated (acyclic) before.
func (c *Configuration) ResolveRoutine(id string) ([]string, error) {
	var keys []string
	visited := map[string]bool{}
	for next := id; len(next) > 0; {
		if visited[next] {
			return nil, fmt.Errorf("routine %s: cycle through '%s'", id, next)
		}
		visited[next] = true

		routine, ok := c.FindRoutine(next)
		if !ok {
			return nil, fmt.Errorf("no routine definition with id '%s' found", next)
		}
		keys = append(keys, routine.ProgramKey())
		next = routine.Then
	}
	return keys, nil
}
