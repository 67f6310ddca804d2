package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu      sync.Mutex
	records []map[string]slog.Value
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := map[string]slog.Value{"msg": slog.StringValue(r.Message)}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.records = append(h.records, m)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) last(t *testing.T) map[string]slog.Value {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i]["msg"].String() == "sql" {
			return h.records[i]
		}
	}
	t.Fatal("no sql log record captured")
	return nil
}

func openLogged(t *testing.T, h *captureHandler) *sql.DB {
	t.Helper()
	connector, err := NewLoggingConnector(":memory:", slog.New(h))
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewLoggingConnector_RejectsEmptyDSN(t *testing.T) {
	if _, err := NewLoggingConnector("", nil); err == nil {
		t.Fatal("NewLoggingConnector(\"\") error = nil, want non-nil")
	}
}

func TestNewLoggingConnector_NilLoggerUsesDefault(t *testing.T) {
	conn, err := NewLoggingConnector(":memory:", nil)
	if err != nil {
		t.Fatalf("NewLoggingConnector: %v", err)
	}
	if conn.(*loggingConnector).logger == nil {
		t.Fatal("logger is nil, want slog.Default()")
	}
}

func TestLoggingConnector_MultiStatementExec(t *testing.T) {
	h := &captureHandler{}
	db := openLogged(t, h)

	script := `
		CREATE TABLE a (id INTEGER);
		CREATE TABLE b (id INTEGER);
		INSERT INTO b (id) VALUES (7);
	`
	if _, err := db.Exec(script); err != nil {
		t.Fatalf("exec script: %v", err)
	}

	var id int
	if err := db.QueryRow(`SELECT id FROM b`).Scan(&id); err != nil {
		t.Fatalf("query b: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}
	got := h.last(t)
	if got["op"].String() != "query" || got["sql"].String() != `SELECT id FROM b` {
		t.Errorf("last record = op:%q sql:%q", got["op"].String(), got["sql"].String())
	}
}

func TestLoggingConnector_ArgsAndErrorsLogged(t *testing.T) {
	h := &captureHandler{}
	db := openLogged(t, h)

	if _, err := db.Exec(`CREATE TABLE weatherdata (id TEXT, city TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO weatherdata (id, city) VALUES (?, ?)`, "w-1", "Oslo"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got := h.last(t)
	if got["op"].String() != "exec" {
		t.Errorf("op = %q, want exec", got["op"].String())
	}
	args, ok := got["args"].Any().([]string)
	if !ok || len(args) != 2 || args[0] != "w-1" || args[1] != "Oslo" {
		t.Errorf("args = %#v, want [w-1 Oslo]", got["args"].Any())
	}
	if _, hasErr := got["error"]; hasErr {
		t.Errorf("unexpected error attribute: %v", got["error"])
	}

	if _, err := db.Query(`SELECT nope FROM weatherdata`); err == nil {
		t.Fatal("query on missing column: error = nil, want non-nil")
	}
	if _, hasErr := h.last(t)["error"]; !hasErr {
		t.Error("failed statement should carry an error attribute")
	}
}

func TestLoggingConnector_PingSucceeds(t *testing.T) {
	db := openLogged(t, &captureHandler{})
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestFormatArg(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: "NULL"},
		{in: []byte("raw"), want: "raw"},
		{in: int64(42), want: "42"},
		{in: 1.5, want: "1.5"},
	}
	for _, tt := range tests {
		if got := formatArg(tt.in); got != tt.want {
			t.Errorf("formatArg(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
