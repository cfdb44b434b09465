package locale

import (
	"io/fs"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestCatalogVietnamese(t *testing.T) {
	c, err := New("vi")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := c.T("StudentDuplicate"); got != "ID sinh viên đã tồn tại! Vui lòng nhập lại." {
		t.Fatalf("unexpected message %q", got)
	}
	got := c.T("AttendanceDone", map[string]any{"Present": 1, "Absent": 1})
	if got != "Điểm danh hoàn tất. Có 1 sinh viên có mặt và 1 sinh viên vắng mặt." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCatalogEnglish(t *testing.T) {
	c, err := New("en")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := c.T("PromptPresence", map[string]any{"Name": "Alice"}); got != "Student Alice (present? y/n): " {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCatalogUnknownIDFallsBack(t *testing.T) {
	c, err := New("en")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := c.T("NoSuchMessage"); got != "NoSuchMessage" {
		t.Fatalf("expected fallback to id, got %q", got)
	}
}

func TestTranslationsHaveSameKeys(t *testing.T) {
	keys := func(path string) map[string]struct{} {
		b, err := fs.ReadFile(translationFS, path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		var m map[string]string
		if err := toml.Unmarshal(b, &m); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		out := make(map[string]struct{}, len(m))
		for k := range m {
			out[k] = struct{}{}
		}
		return out
	}

	vi := keys("translation/active.vi.toml")
	en := keys("translation/active.en.toml")
	for k := range vi {
		if _, ok := en[k]; !ok {
			t.Fatalf("key %s missing from en", k)
		}
	}
	for k := range en {
		if _, ok := vi[k]; !ok {
			t.Fatalf("key %s missing from vi", k)
		}
	}
}
