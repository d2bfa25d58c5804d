package f

import (
	"reflect"
	"slices"
	"testing"
)

func TestSet(t *testing.T) {
	s := NewSet(3, 5)
	s.Add(1)
	if !s.Contains(1) {
		t.Error("Set should contain Added item")
	}
	if s.Contains(2) {
		t.Error("Set should not contain item that was never added")
	}
	items := s.Items()
	slices.Sort(items)
	if !reflect.DeepEqual(items, []int{1, 3, 5}) {
		t.Error("Items should return all items in the set")
	}
}

func TestMap(t *testing.T) {
	ts := []int{1, 2, 3}
	f := func(t int) float64 {
		return float64(t) * 2.5
	}
	if !reflect.DeepEqual(Map(ts, f), []float64{2.5, 5, 7.5}) {
		t.Error("Should scale each item by 2.5 in order")
	}
}

func TestFiltered(t *testing.T) {
	ts := []int{1, 2, 3, 4, 5, 6, 7}
	f := func(t int) bool {
		return t%2 == 0
	}
	if !reflect.DeepEqual(Filtered(ts, f), []int{2, 4, 6}) {
		t.Error("Should filter out odd numbers")
	}
	if got := Filtered(ts, func(int) bool { return false }); got == nil || len(got) != 0 {
		t.Error("Should return an empty, non-nil slice when nothing matches")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	tt := []struct {
		ts          []int
		result      []int
		failMessage string
	}{
		{[]int{1, 2, 2, 3}, []int{1, 2, 3}, "Should remove duplicates"},
		{[]int{3, 1, 3, 0, 1}, []int{3, 1, 0}, "Should keep first occurrence order"},
		{[]int{}, []int{}, "Should handle empty slice"},
	}

	for _, tc := range tt {
		if !reflect.DeepEqual(RemoveDuplicates(tc.ts), tc.result) {
			t.Error(tc.failMessage)
		}
	}
}

func TestFind(t *testing.T) {
	ts := []string{"WOPR", "WWPR", "WGPR"}
	item, found := Find(ts, func(s string) bool { return s[1] == 'W' })
	if !found || item != "WWPR" {
		t.Errorf("Expected WWPR, got %q (found=%v)", item, found)
	}
	item, found = Find(ts, func(s string) bool { return s == "WBHP" })
	if found || item != "" {
		t.Error("Find should return zero value when no item matches")
	}
}
