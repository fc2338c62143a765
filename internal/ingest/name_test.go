package ingest

import "testing"

func TestSplitName(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Josiah Carberry", "Josiah", "Carberry"},
		{"Josiah Stinkney Carberry", "Josiah Stinkney", "Carberry"},
		{"Carberry", "", "Carberry"},
		{"  Jane Adams  ", "Jane", "Adams"},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := SplitName(tc.in)
		if first != tc.first || last != tc.last {
			t.Errorf("SplitName(%q) = %q, %q; want %q, %q", tc.in, first, last, tc.first, tc.last)
		}
	}
}
