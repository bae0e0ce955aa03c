package model

import (
	"encoding/json"
	"testing"
)

func TestCategoryRefJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind RefKind
		id   int64
		out  string
	}{
		{"null", `null`, RefAbsent, 0, `null`},
		{"number", `12`, RefResolved, 12, `12`},
		{"numeric string", `"7"`, RefResolved, 7, `7`},
		{"sentinel", `"uncategorized"`, RefSentinel, 0, `"uncategorized"`},
		{"empty string", `""`, RefAbsent, 0, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref CategoryRef
			if err := json.Unmarshal([]byte(tt.in), &ref); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if ref.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", ref.Kind(), tt.kind)
			}
			if id, _ := ref.ID(); id != tt.id {
				t.Errorf("id = %d, want %d", id, tt.id)
			}
			out, err := json.Marshal(ref)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(out) != tt.out {
				t.Errorf("marshal = %s, want %s", out, tt.out)
			}
		})
	}
}

func TestCategoryRefRejectsGarbage(t *testing.T) {
	for _, in := range []string{`"soup"`, `1.5`, `true`} {
		var ref CategoryRef
		if err := json.Unmarshal([]byte(in), &ref); err == nil {
			t.Errorf("unmarshal %s: expected error, got %v", in, ref)
		}
	}
}

func TestCategoryRefMissingField(t *testing.T) {
	var s Section
	if err := json.Unmarshal([]byte(`{"type":"item_list"}`), &s); err != nil {
		t.Fatal(err)
	}
	if !s.CategoryID.IsAbsent() {
		t.Errorf("missing category_id should be absent, got %v", s.CategoryID)
	}
}

func TestCategoryRefPtr(t *testing.T) {
	if Sentinel().Ptr() != nil {
		t.Error("sentinel must persist as NULL")
	}
	if Absent().Ptr() != nil {
		t.Error("absent must persist as NULL")
	}
	if p := Ref(4).Ptr(); p == nil || *p != 4 {
		t.Errorf("Ref(4).Ptr() = %v", p)
	}
	id := int64(9)
	if got := RefFromPtr(&id); got != Ref(9) {
		t.Errorf("RefFromPtr = %v", got)
	}
	if got := RefFromPtr(nil); !got.IsAbsent() {
		t.Errorf("RefFromPtr(nil) = %v", got)
	}
}

func TestLayoutConfigCloneIsDeep(t *testing.T) {
	cfg := LayoutConfig{
		SelectedMenu: "Lunch",
		Sections: []Section{{
			ID:      "a",
			Type:    SectionPromotional,
			Content: &SectionContent{Text: "Happy hour"},
		}},
	}
	cp := cfg.Clone()
	cp.Sections[0].Content.Text = "changed"
	cp.Sections[0].ID = "b"

	if cfg.Sections[0].Content.Text != "Happy hour" {
		t.Error("clone shares section content")
	}
	if cfg.Sections[0].ID != "a" {
		t.Error("clone shares sections slice")
	}
}
