package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "This is a much longer piece of content that should still hash consistently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestItem_Identifier(t *testing.T) {
	item := Item{Id: 42, Name: "answer"}
	if got := item.Identifier(); got != 42 {
		t.Errorf("Item.Identifier() = %d, want 42", got)
	}
}

func TestItem_ContentKey(t *testing.T) {
	a := Item{Name: "ab", Contents: "c"}
	b := Item{Name: "a", Contents: "bc"}

	if a.ContentKey() == b.ContentKey() {
		t.Errorf("ContentKey() must separate name from contents, both gave %q", a.ContentKey())
	}
	if IDFromContent(a.ContentKey()) == IDFromContent(b.ContentKey()) {
		t.Errorf("expected distinct content IDs for %q and %q", a.ContentKey(), b.ContentKey())
	}
}
