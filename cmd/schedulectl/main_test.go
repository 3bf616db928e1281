package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/locvowork/shift_scheduler/internal/bootstrap"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DB_PATH", filepath.Join(dir, "cli.db"))
	t.Setenv("EXPORT_PATH", filepath.Join(dir, "schedule.xlsx"))

	ctx := context.Background()
	app := bootstrap.NewApp()
	require.NoError(t, app.InitializeCore(ctx))
	t.Cleanup(func() { app.Close() })

	exec := func(action string, opts options) string {
		t.Helper()
		var out bytes.Buffer
		require.NoError(t, run(ctx, app, action, opts, &out))
		return out.String()
	}

	assert.Contains(t, exec("add-employee", options{name: "Alice", age: "30"}), "id 1")
	assert.Contains(t, exec("list-employees", options{}), "Alice")

	assert.Contains(t, exec("assign", options{name: "Alice", day: "Mon", slot: "09:00-10:00"}), "Mon 09:00-10:00: Alice")
	assert.Contains(t, exec("assign", options{name: "Zed", day: "Mon", slot: "09:00-10:00"}), "nothing assigned")
	assert.Contains(t, exec("entries", options{}), "Alice")
	assert.Contains(t, exec("show", options{}), "Alice")

	exec("export", options{})
	f, err := excelize.OpenFile(filepath.Join(dir, "schedule.xlsx"))
	require.NoError(t, err)
	v, _ := f.GetCellValue("Schedule", "B2")
	f.Close()
	assert.Equal(t, "Alice", v)

	flat := filepath.Join(dir, "flat.xlsx")
	assert.Contains(t, exec("export-flat", options{out: flat}), flat)

	assert.Contains(t, exec("save-slots", options{slots: "10:00-11:00, 11:00-12:00"}), "1 entries removed")
	assert.NotContains(t, exec("entries", options{}), "Alice")

	var out bytes.Buffer
	assert.Error(t, run(ctx, app, "assign", options{id: 1, day: "Mon", slot: "09:00-10:00"}, &out))
	assert.Error(t, run(ctx, app, "bogus", options{}, &out))

	exec("clear", options{yes: true})
	exec("delete-employee", options{id: 1})
	assert.NotContains(t, exec("list-employees", options{}), "Alice")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
	assert.Nil(t, splitList(""))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
