package title

import (
	"testing"

	"tablegrid/primitive"
)

func TestExtractSimpleTitle(t *testing.T) {
	words := []primitive.Word{
		{Text: "Table", X0: 10, Top: 25},
		{Text: "1.", X0: 55, Top: 25},
		{Text: "Pin", X0: 75, Top: 25},
		{Text: "description", X0: 100, Top: 25},
	}
	bbox := BBox{X0: 0, Y0: 40, X1: 300, Y1: 200}

	info := Extract(bbox, words, 25, 2)
	if !info.HasTitle {
		t.Fatalf("expected a title, got %+v", info)
	}
	if info.TableNumber != "1" {
		t.Fatalf("got table number %q, want 1", info.TableNumber)
	}
	if info.CleanTitle != "Pin description" {
		t.Fatalf("got clean title %q, want %q", info.CleanTitle, "Pin description")
	}
	if info.IsContinued {
		t.Fatal("did not expect a continuation marker")
	}
}

func TestExtractSpacedTableWord(t *testing.T) {
	words := []primitive.Word{
		{Text: "T", X0: 10, Top: 25},
		{Text: "a", X0: 16, Top: 25},
		{Text: "b", X0: 20, Top: 25},
		{Text: "l", X0: 24, Top: 25},
		{Text: "e", X0: 28, Top: 25},
		{Text: "12.", X0: 40, Top: 25},
		{Text: "Modes", X0: 65, Top: 25},
	}
	bbox := BBox{X0: 0, Y0: 40, X1: 300, Y1: 200}

	info := Extract(bbox, words, 25, 2)
	if !info.HasTitle {
		t.Fatalf("expected a title, got %+v", info)
	}
	if info.TableNumber != "12" {
		t.Fatalf("got table number %q, want 12", info.TableNumber)
	}
	if info.CleanTitle != "Modes" {
		t.Fatalf("got clean title %q, want %q", info.CleanTitle, "Modes")
	}
}

func TestExtractContinuedTitle(t *testing.T) {
	words := []primitive.Word{
		{Text: "Table", X0: 10, Top: 25},
		{Text: "1.", X0: 55, Top: 25},
		{Text: "Pin", X0: 75, Top: 25},
		{Text: "description", X0: 100, Top: 25},
		{Text: "(continued)", X0: 170, Top: 25},
	}
	bbox := BBox{X0: 0, Y0: 40, X1: 300, Y1: 200}

	info := Extract(bbox, words, 25, 2)
	if !info.IsContinued {
		t.Fatal("expected is_continued to be true")
	}
	if info.CleanTitle != "Pin description" {
		t.Fatalf("got clean title %q, want %q", info.CleanTitle, "Pin description")
	}
}

func TestExtractNoTitle(t *testing.T) {
	words := []primitive.Word{
		{Text: "Note.", X0: 10, Top: 25},
		{Text: "Foo", X0: 50, Top: 25},
	}
	bbox := BBox{X0: 0, Y0: 40, X1: 300, Y1: 200}

	info := Extract(bbox, words, 25, 2)
	if info.HasTitle {
		t.Fatalf("expected no title, got %+v", info)
	}
}

func TestExtractAmbiguousDecimalNumber(t *testing.T) {
	words := []primitive.Word{
		{Text: "Table", X0: 10, Top: 25},
		{Text: "3.1.", X0: 55, Top: 25},
		{Text: "Edge", X0: 90, Top: 25},
		{Text: "cases", X0: 120, Top: 25},
	}
	bbox := BBox{X0: 0, Y0: 40, X1: 300, Y1: 200}

	info := Extract(bbox, words, 25, 2)
	if info.TableNumber != "3" {
		t.Fatalf("got table number %q, want 3 (the documented ambiguous-regex behaviour)", info.TableNumber)
	}
	if info.CleanTitle != "1. Edge cases" {
		t.Fatalf("got clean title %q, want %q", info.CleanTitle, "1. Edge cases")
	}
}

func TestSanitizeStripsAndReplaces(t *testing.T) {
	got := Sanitize(`Pin description (continued): "weird"/name*?`, false)
	for _, bad := range []string{" ", "(", ")", ":", "*", "?", "\""} {
		if contains(got, bad) {
			t.Fatalf("sanitized name %q still contains %q", got, bad)
		}
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
