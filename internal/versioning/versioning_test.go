package versioning

import "testing"

func TestCompare(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"18", "18.0", 0},
		{"18", "18.0.0", 0},
		{"17.5.1", "17.5", 1},
		{"17.5", "17.5.1", -1},
		{"18.0", "17.7.6", 1},
		{"18.1 beta 3", "18.1", 0},
		{"iOS 18.2 RC", "18.2", 0},
		{"", "1", -1},
		{"", "", 0},
		{"no digits", "also none", 0},
		{"2", "10", -1},
	}

	for _, tc := range cases {
		if got := Compare(tc.a, tc.b); got != tc.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCompareNoDigitsEqualsZero(t *testing.T) {
	t.Parallel()

	// A digit-free string compares as all-zero, so it equals "0" but is
	// below any real version.
	if got := Compare("beta", "0"); got != 0 {
		t.Fatalf("Compare(beta, 0) = %d, want 0", got)
	}
	if got := Compare("beta", "1"); got != -1 {
		t.Fatalf("Compare(beta, 1) = %d, want -1", got)
	}
}

func TestExtractMajor(t *testing.T) {
	t.Parallel()

	major, ok := ExtractMajor("18.1 beta 3")
	if !ok || major != 18 {
		t.Fatalf("ExtractMajor(18.1 beta 3) = %d, %v", major, ok)
	}

	if _, ok := ExtractMajor("someday"); ok {
		t.Fatal("expected no major in digit-free string")
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"18.1 Beta 3": "18.1  3",
		"18.2 RC":     "18.2",
		"18":          "18",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
