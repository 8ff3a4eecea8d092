package dedupfiles

import (
	"reflect"
	"testing"
)

func TestParseHumanSize(t *testing.T) {
	testCases := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"1024", 1024, false},
		{"512B", 512, false},
		{"4K", 4096, false},
		{"4kb", 4096, false},
		{"1.5M", 1536 * 1024, false},
		{"2G", 2 * 1024 * 1024 * 1024, false},
		{"1T", 1024 * 1024 * 1024 * 1024, false},
		{" 8 K ", 8192, false},
		{"", 0, true},
		{"K", 0, true},
		{"12Q", 0, true},
		{"1.2.3", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseHumanSize(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %d", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("Expected %d for %q, got %d", tc.want, tc.input, got)
			}
		})
	}
}

func TestFormatHumanSize(t *testing.T) {
	testCases := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}

	for _, tc := range testCases {
		if got := FormatHumanSize(tc.size); got != tc.want {
			t.Errorf("FormatHumanSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestDeduplicatePaths(t *testing.T) {
	testCases := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty", nil, nil},
		{"single", []string{"/a"}, []string{"/a"}},
		{
			"nested dropped, order kept",
			[]string{"/home/user/docs/a", "/home/user/photos", "/home/user/docs"},
			[]string{"/home/user/photos", "/home/user/docs"},
		},
		{"repeated root kept once", []string{"/b", "/a", "/b"}, []string{"/b", "/a"}},
		{"prefix is not nesting", []string{"/data", "/database"}, []string{"/data", "/database"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := deduplicatePaths(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestIsPathUnder(t *testing.T) {
	testCases := []struct {
		child, parent string
		under         bool
		contained     bool
	}{
		{"/a/b", "/a", true, true},
		{"/a", "/a", false, true},
		{"/a/", "/a", false, true},
		{"/ab", "/a", false, false},
		{"/a/b/c", "/a/b", true, true},
		{"/", "/a", false, false},
		{"/a", "/", true, true},
	}

	for _, tc := range testCases {
		if got := isPathUnder(tc.child, tc.parent); got != tc.under {
			t.Errorf("isPathUnder(%q, %q) = %v, want %v", tc.child, tc.parent, got, tc.under)
		}
		if got := isPathContained(tc.child, tc.parent); got != tc.contained {
			t.Errorf("isPathContained(%q, %q) = %v, want %v", tc.child, tc.parent, got, tc.contained)
		}
	}
}

func TestInsertSorted(t *testing.T) {
	got := insertSorted([]string{"/r/b", "/r/d"}, []string{"/r/c/z", "/r/a", "/r/c"})
	want := []string{"/r/a", "/r/b", "/r/c", "/r/c/z", "/r/d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if got := insertSorted([]string{"/x"}, nil); !reflect.DeepEqual(got, []string{"/x"}) {
		t.Errorf("Expected existing queue unchanged, got %v", got)
	}
}
