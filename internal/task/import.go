package task

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"taskodo/internal/model"
)

// SnapshotVersion is the version the browser store writes next to its state.
const SnapshotVersion = 0

type snapshot struct {
	State struct {
		Tasks []model.Task `json:"tasks"`
	} `json:"state"`
	Version int `json:"version"`
}

// DecodeSnapshot reads tasks out of the browser persisted blob
// {"state":{"tasks":[...]},"version":0}. A bare {"tasks":[...]} or a
// top-level array are accepted too.
func DecodeSnapshot(b []byte) ([]model.Task, error) {
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("%w: snapshot is not valid JSON", ErrInvalid)
	}

	root := gjson.ParseBytes(b)
	var list gjson.Result
	switch {
	case root.IsArray():
		list = root
	case root.Get("state.tasks").IsArray():
		list = root.Get("state.tasks")
	case root.Get("tasks").IsArray():
		list = root.Get("tasks")
	default:
		return nil, fmt.Errorf("%w: snapshot has no tasks array", ErrInvalid)
	}

	out := []model.Task{}
	var decodeErr error
	i := 0
	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			decodeErr = fmt.Errorf("%w: tasks[%d] is not an object", ErrInvalid, i)
			return false
		}
		var t model.Task
		if err := json.Unmarshal([]byte(item.Raw), &t); err != nil {
			decodeErr = fmt.Errorf("%w: tasks[%d]: %v", ErrInvalid, i, err)
			return false
		}
		out = append(out, t)
		i++
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}

// EncodeSnapshot writes tasks in the browser persisted shape.
func EncodeSnapshot(tasks []model.Task) ([]byte, error) {
	var s snapshot
	s.State.Tasks = tasks
	if s.State.Tasks == nil {
		s.State.Tasks = []model.Task{}
	}
	s.Version = SnapshotVersion
	return json.MarshalIndent(s, "", "  ")
}

// Import replaces the board with the tasks in a snapshot blob.
func Import(repo Repo, b []byte) (int, error) {
	tasks, err := DecodeSnapshot(b)
	if err != nil {
		return 0, err
	}
	if err := repo.SetAll(tasks); err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// Export serializes the current board as a snapshot blob.
func Export(repo Repo) ([]byte, error) {
	tasks, err := repo.List()
	if err != nil {
		return nil, err
	}
	return EncodeSnapshot(tasks)
}
