package helpers

import (
	"reflect"
	"testing"
)

func TestUniqueKeepsFirstSeenOrder(t *testing.T) {
	got := Unique([]string{"nke", "aapl", "nke", "tsla", "aapl"})
	want := []string{"nke", "aapl", "tsla"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Unique = %v, want %v", got, want)
	}
}

func TestChunk(t *testing.T) {
	got := Chunk([]int{1, 2, 3, 4, 5, 6, 7}, 3)
	want := [][]int{{1, 2, 3}, {4, 5, 6}, {7}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Chunk = %v, want %v", got, want)
	}
	if Chunk([]int{}, 3) != nil {
		t.Fatalf("expected nil for empty input")
	}
	if Chunk([]int{1}, 0) != nil {
		t.Fatalf("expected nil for non-positive size")
	}
}
