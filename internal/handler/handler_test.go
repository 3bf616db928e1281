package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/locvowork/shift_scheduler/internal/database"
	"github.com/locvowork/shift_scheduler/internal/repository"
	"github.com/locvowork/shift_scheduler/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	e   *echo.Echo
	dir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Open(context.Background(), database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(dir, "schedule.db"),
	})
	require.NoError(t, err)
	store := repository.NewStore(db)
	t.Cleanup(func() { store.Close() })

	empSvc := service.NewEmployeeService(store)
	schedSvc := service.NewScheduleService(store)
	empSvc.OnDelete(schedSvc.RemoveEmployee)
	require.NoError(t, schedSvc.Load(context.Background()))
	expSvc := service.NewExportService(schedSvc, nil, filepath.Join(dir, "schedule.xlsx"))

	emp := NewEmployeeHandler(empSvc)
	sched := NewScheduleHandler(schedSvc)
	exp := NewExportHandler(expSvc)

	e := echo.New()
	e.Use(RequestLogger())
	e.GET("/employees", emp.ListHandler)
	e.POST("/employees", emp.CreateHandler)
	e.GET("/employees/lookup", emp.LookupHandler)
	e.GET("/employees/:id", emp.GetHandler)
	e.DELETE("/employees/:id", emp.DeleteHandler)
	e.GET("/grid", sched.GridHandler)
	e.PUT("/grid/cells/:day/:row", sched.AssignHandler)
	e.DELETE("/grid/cells/:day/:row", sched.ClearCellHandler)
	e.GET("/grid/pending", sched.PendingHandler)
	e.POST("/grid/save", sched.SaveHandler)
	e.GET("/slots", sched.ListSlotsHandler)
	e.PUT("/slots", sched.ReplaceSlotsHandler)
	e.POST("/slots", sched.AddSlotHandler)
	e.DELETE("/slots/:row", sched.RemoveSlotHandler)
	e.GET("/slots/options", sched.SlotOptionsHandler)
	e.GET("/schedule", sched.ListEntriesHandler)
	e.POST("/schedule", sched.UpsertEntryHandler)
	e.DELETE("/schedule", sched.ClearHandler)
	e.POST("/export", exp.ExportHandler)
	e.GET("/export/download", exp.DownloadHandler)
	e.GET("/export/csv", exp.CSVHandler)

	return &testServer{e: e, dir: dir}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestEmployeeHandlers(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/employees", `{"name":"Alice","age":31}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	var alice struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Age  *int   `json:"age"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &alice))
	assert.Equal(t, "Alice", alice.Name)
	require.NotNil(t, alice.Age)
	assert.Equal(t, 31, *alice.Age)

	rec, env = s.do(t, http.MethodPost, "/employees", `{"name":"Bob","age":"not sure"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, string(env.Data), "age")

	rec, env = s.do(t, http.MethodPost, "/employees", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	rec, env = s.do(t, http.MethodGet, "/employees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	rec, _ = s.do(t, http.MethodGet, "/employees/lookup?name=Alice", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/employees/lookup?name=Carol", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/employees/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/employees/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(t, http.MethodDelete, "/employees/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	rec, _ = s.do(t, http.MethodDelete, "/employees/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGridHandlers(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/employees", `{"name":"Alice"}`)
	s.do(t, http.MethodPost, "/employees", `{"name":"Bob"}`)

	rec, env := s.do(t, http.MethodPut, "/grid/cells/Mon/0", `{"employee_id":1}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	rec, env = s.do(t, http.MethodPut, "/grid/cells/%EC%9B%94/0", `{"name":"Bob"}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)

	var g GridResponse
	require.NoError(t, json.Unmarshal(env.Data, &g))
	require.Len(t, g.Cells, 9)
	assert.Equal(t, "Alice, Bob", g.Cells[0][0].Text)
	assert.Len(t, g.Cells[0][0].Employees, 2)
	assert.Equal(t, "", g.Cells[0][1].Text)

	rec, env = s.do(t, http.MethodPut, "/grid/cells/Mon/0", `{"name":"Nobody"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = s.do(t, http.MethodPut, "/grid/cells/Funday/0", `{"employee_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodPut, "/grid/cells/Mon/40", `{"employee_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodPut, "/grid/cells/Mon/0", `{"employee_id":77}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = s.do(t, http.MethodPut, "/grid/cells/Mon/0", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/grid/pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"add":[`)

	rec, env = s.do(t, http.MethodPost, "/grid/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"added":2,"removed":0}`, string(env.Data))

	rec, env = s.do(t, http.MethodGet, "/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 2)

	rec, _ = s.do(t, http.MethodDelete, "/grid/cells/Mon/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env = s.do(t, http.MethodPost, "/grid/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"added":0,"removed":2}`, string(env.Data))
}

func TestSlotHandlers(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPut, "/slots", `{"slots":["08:00-09:00","09:00-10:30"]}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	assert.JSONEq(t, `["08:00-09:00","09:00-10:30"]`, string(env.Data))

	rec, _ = s.do(t, http.MethodPut, "/slots", `{"slots":["10:00-09:00"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/slots", `{"start":"11:15","end":"12:45"}`)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	assert.JSONEq(t, `["08:00-09:00","09:00-10:30","11:15-12:45"]`, string(env.Data))

	rec, _ = s.do(t, http.MethodPost, "/slots", `{"start":"11:15","end":"12:45"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/slots", `{"start":"11:10","end":"12:45"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodDelete, "/slots/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["09:00-10:30","11:15-12:45"]`, string(env.Data))
	rec, _ = s.do(t, http.MethodDelete, "/slots/9", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/slots/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts SlotOptionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &opts))
	assert.Len(t, opts.Hours, 24)
	assert.Equal(t, []int{0, 15, 30, 45}, opts.Minutes)
}

func TestScheduleEntryHandlers(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/employees", `{"name":"Alice"}`)

	body := `{"employee_id":1,"day":"Mon","slot":"09:00-10:00"}`
	rec, env := s.do(t, http.MethodPost, "/schedule", body)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	rec, _ = s.do(t, http.MethodPost, "/schedule", body)
	require.Equal(t, http.StatusOK, rec.Code)

	_, env = s.do(t, http.MethodGet, "/schedule", "")
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)

	rec, _ = s.do(t, http.MethodPost, "/schedule", `{"employee_id":1,"day":"Someday","slot":"09:00-10:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/schedule", `{"employee_id":1,"day":"Mon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/schedule", `{"employee_id":1,"day":"Mon","slot":"20:00-21:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, env = s.do(t, http.MethodGet, "/schedule", "")
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)

	rec, _ = s.do(t, http.MethodDelete, "/schedule", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, env = s.do(t, http.MethodGet, "/schedule", "")
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestExportHandlers(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/employees", `{"name":"Alice"}`)
	s.do(t, http.MethodPut, "/grid/cells/Mon/0", `{"employee_id":1}`)

	rec, env := s.do(t, http.MethodPost, "/export", `{}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	var out ExportResponse
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, filepath.Join(s.dir, "schedule.xlsx"), out.Path)

	rec, _ = s.do(t, http.MethodPost, "/export", `{"kind":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/export/download", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get(echo.HeaderContentType))
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	v, _ := f.GetCellValue("Schedule", "B2")
	assert.Equal(t, "Alice", v)

	rec, _ = s.do(t, http.MethodGet, "/export/csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee,Day,Time\n", rec.Body.String())
}
