package store

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenMigrated(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed() {
		t.Errorf("second Migrate() changed %d -> %d", result.From, result.Version)
	}
	if result.Version != 2 {
		t.Errorf("version = %d, want 2", result.Version)
	}
	if result.Dirty {
		t.Error("schema is dirty after migration")
	}
}

func TestMigrateFreshDatabase(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.From != 0 || result.Version != 2 || !result.Changed() {
		t.Errorf("result = %+v", result)
	}
}

func TestMigrateSchemaHasRequiredColumns(t *testing.T) {
	db := testDB(t)

	requiredOps := []struct {
		desc  string
		query string
		args  []any
	}{
		{"cache collection", "INSERT INTO collection_cache (entity, payload, fetched_at) VALUES (?, ?, ?)", []any{"clients", []byte("[]"), 1000}},
		{"set kv", "INSERT INTO kv (key, value) VALUES (?, ?)", []any{"k", "v"}},
		{"queue outbox", "INSERT INTO outbox (mutation_id, entity, method, path, body) VALUES (?, ?, ?, ?, ?)", []any{"m", "clients", "POST", "/clients", []byte("{}")}},
	}

	for _, op := range requiredOps {
		t.Run(op.desc, func(t *testing.T) {
			if _, err := db.Exec(op.query, op.args...); err != nil {
				t.Fatalf("%s failed: %v", op.desc, err)
			}
		})
	}
}

func TestCollectionCacheRoundTrip(t *testing.T) {
	db := testDB(t)

	c, err := db.LoadCollection("clients")
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Fatalf("expected nil for empty cache, got %+v", c)
	}

	if err := db.SaveCollection("clients", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveCollection("clients", []byte(`[{"id":"2"}]`)); err != nil {
		t.Fatal(err)
	}

	c, err = db.LoadCollection("clients")
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || !bytes.Equal(c.Payload, []byte(`[{"id":"2"}]`)) {
		t.Errorf("payload = %v, want latest save", c)
	}
	if c.FetchedAt.IsZero() {
		t.Error("fetched_at not recorded")
	}

	if err := db.ClearCollections(); err != nil {
		t.Fatal(err)
	}
	if c, _ := db.LoadCollection("clients"); c != nil {
		t.Error("cache not cleared")
	}
}

func TestKV(t *testing.T) {
	db := testDB(t)

	if _, ok, err := db.GetKV("session"); err != nil || ok {
		t.Fatalf("GetKV(missing) = ok %v err %v", ok, err)
	}
	if err := db.SetKV("session", "a"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetKV("session", "b"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := db.GetKV("session")
	if err != nil || !ok || v != "b" {
		t.Errorf("GetKV = %q %v %v, want b", v, ok, err)
	}
	if err := db.DeleteKV("session"); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteKV("session"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
	if _, ok, _ := db.GetKV("session"); ok {
		t.Error("key still present after delete")
	}
}

func TestOutbox(t *testing.T) {
	db := testDB(t)

	if err := db.QueueOutbox("m1", "clients", "POST", "/clients", []byte(`{"nome":"Ana"}`)); err != nil {
		t.Fatal(err)
	}
	if err := db.QueueOutbox("m2", "products", "DELETE", "/produtos", []byte(`{"id":"9"}`)); err != nil {
		t.Fatal(err)
	}

	pending, err := db.PendingOutbox()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending, want 2", len(pending))
	}
	if pending[0].MutationID != "m1" || pending[1].MutationID != "m2" {
		t.Errorf("order = %s,%s, want m1,m2", pending[0].MutationID, pending[1].MutationID)
	}
	if pending[0].Method != "POST" || pending[0].Path != "/clients" {
		t.Errorf("entry = %+v", pending[0])
	}

	if err := db.MarkOutboxSending("m1"); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxSent("m1"); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxSending("m2"); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxFailed("m2", "Cliente possui compras"); err != nil {
		t.Fatal(err)
	}

	pending, err = db.PendingOutbox()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending after send, want 0", len(pending))
	}

	failed, err := db.FailedOutbox(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(failed) != 1 || failed[0].ErrorMessage != "Cliente possui compras" {
		t.Errorf("failed = %+v", failed)
	}
}

func TestRequeueSending(t *testing.T) {
	db := testDB(t)

	if err := db.QueueOutbox("m1", "clients", "POST", "/clients", nil); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxSending("m1"); err != nil {
		t.Fatal(err)
	}
	n, err := db.RequeueSending()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("requeued %d, want 1", n)
	}
	pending, _ := db.PendingOutbox()
	if len(pending) != 1 {
		t.Errorf("got %d pending, want 1", len(pending))
	}
}

func TestPruneOutbox(t *testing.T) {
	db := testDB(t)

	for _, id := range []string{"old-sent", "old-failed", "new-sent"} {
		if err := db.QueueOutbox(id, "clients", "POST", "/clients", nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.MarkOutboxSent("old-sent"); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxFailed("old-failed", "boom"); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-30 * 24 * time.Hour).UnixMilli()
	if _, err := db.Exec(`UPDATE outbox SET updated_at = ? WHERE mutation_id IN ('old-sent', 'old-failed')`, old); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkOutboxSent("new-sent"); err != nil {
		t.Fatal(err)
	}

	n, err := db.PruneOutbox(time.Now().Add(-7 * 24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	var left int
	if err := db.QueryRow(`SELECT COUNT(*) FROM outbox`).Scan(&left); err != nil {
		t.Fatal(err)
	}
	if left != 2 {
		t.Errorf("left %d entries, want 2", left)
	}
}
