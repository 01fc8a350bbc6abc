package phrase

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestImportMergePutsImportedFirst(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	lib.Add(ctx, "C", "")
	b, _ := lib.Add(ctx, "B", "")
	if err := lib.UpdateScore(ctx, b.ID, 50); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}

	backup := `[
		{"id": "a1", "text": "A", "note": "", "timestamp": 10},
		{"id": "b1", "text": "B", "note": "", "timestamp": 11}
	]`
	sum, err := lib.Import(ctx, strings.NewReader(backup))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	got := lib.List()
	if want := []string{"A", "B", "C"}; strings.Join(texts(got), ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v", texts(got), want)
	}
	// The imported B replaced the scored one.
	if got[1].LastScore != nil || got[1].PracticeCount != 0 {
		t.Errorf("B = %+v, want imported record", got[1])
	}
	if sum.Imported != 2 || sum.Replaced != 1 || sum.Kept != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestImportTextOnlyRecords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"text only", `[{"text":"A"},{"text":"B"}]`, []string{"A", "B", "C"}},
		{"no timestamp", `[{"id": "x", "text": "D"}]`, []string{"D", "B", "C"}},
		{"no id", `[{"text": "B", "timestamp": 3, "practiceCount": 1}]`, []string{"B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, _ := newTestLibrary(t)
			ctx := context.Background()
			lib.Add(ctx, "C", "")
			b, _ := lib.Add(ctx, "B", "")
			if err := lib.UpdateScore(ctx, b.ID, 50); err != nil {
				t.Fatalf("UpdateScore: %v", err)
			}

			if _, err := lib.Import(ctx, strings.NewReader(tt.input)); err != nil {
				t.Fatalf("Import: %v", err)
			}

			got := lib.List()
			if strings.Join(texts(got), ",") != strings.Join(tt.want, ",") {
				t.Fatalf("order = %v, want %v", texts(got), tt.want)
			}
			seen := map[string]bool{}
			for _, p := range got {
				if p.ID == "" || seen[p.ID] {
					t.Errorf("phrase %q has missing or duplicate id %q", p.Text, p.ID)
				}
				seen[p.ID] = true
				if p.Timestamp.IsZero() {
					t.Errorf("phrase %q has no timestamp", p.Text)
				}
			}
			if b, _ := lib.FindByText("B"); strings.Contains(tt.input, `"B"`) && b.LastScore != nil {
				t.Errorf("B kept score %d, want the imported record", *b.LastScore)
			}
		})
	}
}

func TestImportDuplicateTextFirstWins(t *testing.T) {
	lib, _ := newTestLibrary(t)
	backup := `[
		{"id": "1", "text": "Same", "note": "first", "timestamp": 1},
		{"id": "2", "text": "Same", "note": "second", "timestamp": 2}
	]`
	if _, err := lib.Import(context.Background(), strings.NewReader(backup)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	got := lib.List()
	if len(got) != 1 || got[0].Note != "first" {
		t.Fatalf("got %+v, want only the first entry", got)
	}
}

func TestImportRegeneratesCollidingIDs(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	existing, _ := lib.Add(ctx, "Existing", "")

	backup := `[{"id": "` + existing.ID + `", "text": "New", "timestamp": 5}]`
	if _, err := lib.Import(ctx, strings.NewReader(backup)); err != nil {
		t.Fatalf("Import: %v", err)
	}

	got := lib.List()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID == existing.ID {
		t.Errorf("imported id %q collides with existing phrase", got[0].ID)
	}
	if got[1].ID != existing.ID {
		t.Errorf("existing id changed to %q", got[1].ID)
	}
}

func TestImportRejectsMalformedBackup(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{{`},
		{"object", `{"id": "1", "text": "A", "timestamp": 1}`},
		{"missing text", `[{"id": "1", "timestamp": 1}]`},
		{"blank text", `[{"id": "1", "text": "   ", "timestamp": 1}]`},
		{"empty id", `[{"id": "", "text": "A", "timestamp": 1}]`},
		{"string timestamp", `[{"id": "1", "text": "A", "timestamp": "yesterday"}]`},
		{"score too high", `[{"id": "1", "text": "A", "timestamp": 1, "lastScore": 101}]`},
		{"negative practice count", `[{"id": "1", "text": "A", "timestamp": 1, "practiceCount": -1}]`},
		{"unknown field", `[{"id": "1", "text": "A", "timestamp": 1, "extra": true}]`},
		{"partially valid", `[{"id": "1", "text": "A", "timestamp": 1}, {"id": "2"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, repo := newTestLibrary(t)
			ctx := context.Background()
			lib.Add(ctx, "Keep me", "")
			writes := repo.writes

			_, err := lib.Import(ctx, strings.NewReader(tt.input))
			var fe *ImportFormatError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v, want *ImportFormatError", err)
			}
			if got := texts(lib.List()); len(got) != 1 || got[0] != "Keep me" {
				t.Errorf("library changed: %v", got)
			}
			if repo.writes != writes {
				t.Errorf("writes = %d, want %d", repo.writes, writes)
			}
		})
	}
}

func TestImportAcceptsNullScore(t *testing.T) {
	lib, _ := newTestLibrary(t)
	backup := `[{"id": "1", "text": "A", "timestamp": 1, "lastScore": null, "practiceCount": 0}]`
	if _, err := lib.Import(context.Background(), strings.NewReader(backup)); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if p := lib.List()[0]; p.LastScore != nil {
		t.Errorf("LastScore = %v, want nil", *p.LastScore)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestLibrary(t)
	ctx := context.Background()
	a, _ := src.Add(ctx, "Hello world", "greeting")
	src.Add(ctx, "How are you", "")
	if err := src.UpdateScore(ctx, a.ID, 72); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := New(nil)
	if _, err := dst.Import(ctx, &buf); err != nil {
		t.Fatalf("Import: %v", err)
	}

	want, got := src.List(), dst.List()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Text != w.Text || g.Note != w.Note || g.PracticeCount != w.PracticeCount {
			t.Errorf("phrase %d = %+v, want %+v", i, g, w)
		}
		if !g.Timestamp.Equal(w.Timestamp) {
			t.Errorf("phrase %d timestamp = %v, want %v", i, g.Timestamp, w.Timestamp)
		}
		if (g.LastScore == nil) != (w.LastScore == nil) || (g.LastScore != nil && *g.LastScore != *w.LastScore) {
			t.Errorf("phrase %d lastScore mismatch", i)
		}
	}
}

func TestExportEmptyLibrary(t *testing.T) {
	var buf bytes.Buffer
	if err := New(nil).Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("export = %q, want []", got)
	}
}

func TestExportFileReplacesAtomically(t *testing.T) {
	lib, _ := newTestLibrary(t)
	ctx := context.Background()
	lib.Add(ctx, "A", "")

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := lib.ExportFile(path); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}

	fresh := New(nil)
	if _, err := fresh.ImportFile(ctx, path); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if fresh.Len() != 1 {
		t.Errorf("Len = %d, want 1", fresh.Len())
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
