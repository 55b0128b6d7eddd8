package sqlite

import (
	"database/sql/driver"
	"fmt"
	"sync"

	msqlite "modernc.org/sqlite"

	"github.com/mesh-intelligence/todo/internal/fold"
	"github.com/mesh-intelligence/todo/pkg/query"
)

var (
	registerFoldOnce sync.Once
	registerFoldErr  error
)

// registerFold installs todo_fold(text, mode) for every SQLite connection
// opened afterwards. Registration is process-wide and happens once.
func registerFold() error {
	registerFoldOnce.Do(func() {
		registerFoldErr = msqlite.RegisterDeterministicScalarFunction(query.FoldFunction, 2, foldSQL)
	})
	return registerFoldErr
}

func foldSQL(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	var s string
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return nil, fmt.Errorf("%s: unsupported text argument %T", query.FoldFunction, v)
	}
	mode, ok := args[1].(int64)
	if !ok {
		return nil, fmt.Errorf("%s: mode must be an integer, got %T", query.FoldFunction, args[1])
	}
	return fold.String(s, fold.Mode(mode)), nil
}
