package shatter

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a field script.
type scriptStep struct {
	Action  string  `json:"action"`
	Value   float64 `json:"value,omitempty"`
	Seconds float32 `json:"seconds,omitempty"`
	Frames  int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a field script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences captures, speed changes, and waits across fixed
// ticks for automated testing and recorded demos. Call Step once per tick
// before Field.Update.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON field script:
//
//	{"steps": [
//	  {"action": "capture"},
//	  {"action": "speed", "value": 1},
//	  {"action": "wait", "frames": 120},
//	  {"action": "ramp", "value": -1, "seconds": 0.5},
//	  {"action": "wait", "frames": 120},
//	  {"action": "reset"}
//	]}
//
// Actions are capture, reset, speed, reverse, ramp, and wait.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "capture", "reset", "speed", "reverse", "ramp", "wait":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step executes at most one action against f. A wait of n frames holds the
// runner for n ticks, counting the tick it was read on.
func (r *ScriptRunner) Step(f *Field) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "capture":
		err = f.Capture()
	case "reset":
		f.Reset()
	case "speed":
		f.SetSpeed(st.Value)
	case "reverse":
		f.Reverse()
	case "ramp":
		f.RampSpeed(st.Value, st.Seconds, nil)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	if err != nil {
		return fmt.Errorf("script step %d (%s): %w", r.cursor-1, st.Action, err)
	}
	return nil
}

// Run drives f with the script at a fixed dt until the script finishes or
// maxTicks ticks have elapsed. It returns the number of ticks run.
func (r *ScriptRunner) Run(f *Field, dt float64, maxTicks int) (int, error) {
	ticks := 0
	for !r.done && ticks < maxTicks {
		if err := r.Step(f); err != nil {
			return ticks, err
		}
		f.Update(dt)
		ticks++
	}
	return ticks, nil
}
