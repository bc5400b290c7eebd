package record

import "testing"

func TestValidFilename(t *testing.T) {
	testCases := []struct {
		name string
		want bool
	}{
		{"report.pdf", true},
		{"archive.tar.gz", true},
		{"photo.JPG", true},
		{"a.md", true},
		{"noextension", false},
		{"trailingdot.", false},
		{"x", false},
		{"", false},
		{"script.exe", false},
		{"binary.bin", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidFilename(tc.name); got != tc.want {
				t.Errorf("ValidFilename(%q) == %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestMimeType(t *testing.T) {
	testCases := []struct {
		name, want string
	}{
		{"report.pdf", "application/pdf"},
		{"scan.jpeg", "image/jpeg"},
		{"page.HTM", "text/html"},
		{"data.unknown", "application/octet-stream"},
	}
	for _, tc := range testCases {
		if got := MimeType(tc.name); got != tc.want {
			t.Errorf("MimeType(%q) == %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFileKind(t *testing.T) {
	testCases := []struct {
		name, want string
	}{
		{"slides.pptx", "presentation"},
		{"song.mp3", "audio"},
		{"notes.txt", "other"},
	}
	for _, tc := range testCases {
		if got := FileKind(tc.name); got != tc.want {
			t.Errorf("FileKind(%q) == %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTagSelectionMerge(t *testing.T) {
	s := TagSelection{
		Confirmed:  []string{"work", "finance"},
		PendingNew: []string{"travel", "work", ""},
	}
	got := s.Merge()
	want := []string{"work", "finance", "travel"}
	if len(got) != len(want) {
		t.Fatalf("Merge() == %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Merge()[%d] == %q, want %q", i, got[i], want[i])
		}
	}
}
