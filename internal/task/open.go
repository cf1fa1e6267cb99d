package task

import (
	"fmt"
	"path/filepath"
)

// Open builds a Store for a storage driver: "file" keeps tasks.json under
// dataDir/tasks, "sqlite" uses sqlitePath and "memory" persists nothing.
// The returned close func is never nil.
func Open(driver, dataDir, sqlitePath string) (*Store, func() error, error) {
	noop := func() error { return nil }

	switch driver {
	case "", "file":
		s, err := NewFileRepo(filepath.Join(dataDir, "tasks"))
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "sqlite":
		s, p, err := NewSQLiteRepo(sqlitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, p.Close, nil
	case "memory":
		return NewMemoryRepo(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", driver)
	}
}
