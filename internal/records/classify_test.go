package records

import "testing"

func TestClassify_Separator(t *testing.T) {
	opts := DefaultOptions()

	cases := []struct {
		line string
		want LineKind
	}{
		{"====", LineSeparator},
		{"----------", LineSeparator},
		{"~~~~~~", LineSeparator},
		{"  ######  ", LineSeparator},
		{"=-=-=-=", LineSeparator}, // mixed run of separator chars
		{"===", LineSeparator},     // below MinSeparatorLen but a mixed run >= 3
		{"==", LineDropped},        // too short either way
		{"= note =", LineDropped},
	}
	for _, c := range cases {
		if got := Classify(c.line, false, opts); got != c.want {
			t.Errorf("Classify(%q): expected %v, got %v", c.line, c.want, got)
		}
	}
}

func TestClassify_SeparatorsDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.SplitOnSeparators = false
	if got := Classify("========", false, opts); got == LineSeparator {
		t.Errorf("expected separator detection off, got LineSeparator")
	}
}

func TestClassify_HeadingNumbered(t *testing.T) {
	opts := DefaultOptions()
	if got := Classify("12. Experimental Setup", false, opts); got != LineHeading {
		t.Errorf("expected numbered heading, got %v", got)
	}
	if got := Classify("IV. Results", false, opts); got != LineHeading {
		t.Errorf("expected roman-numeral heading, got %v", got)
	}
	opts.DetectNumbered = false
	opts.DetectTitleCase = false
	opts.DetectAllCaps = false
	if got := Classify("12. Experimental Setup", false, opts); got == LineHeading {
		t.Errorf("expected numbered detection off")
	}
}

func TestClassify_HeadingAllCaps(t *testing.T) {
	opts := DefaultOptions()
	if got := Classify("INTRODUCTION", false, opts); got != LineHeading {
		t.Errorf("expected all-caps heading, got %v", got)
	}
	// Digits and punctuation alone are not a heading.
	if got := Classify("1234567890!", false, opts); got == LineHeading {
		t.Errorf("letterless line must not be an all-caps heading")
	}
}

func TestClassify_HeadingTitleCase(t *testing.T) {
	opts := DefaultOptions()
	opts.DetectAllCaps = false
	if got := Classify("The Quick Brown Fox Report", false, opts); got != LineHeading {
		t.Errorf("expected title-case heading, got %v", got)
	}
	// 2 of 5 capitalized is below the 60% bar.
	if got := Classify("The quick brown fox Report again now", false, opts); got == LineHeading {
		t.Errorf("expected non-heading for sparse capitalization, got heading")
	}
}

func TestClassify_HeadingNextBlankFallback(t *testing.T) {
	opts := DefaultOptions()
	opts.DetectAllCaps = false
	opts.DetectTitleCase = false
	opts.DetectNumbered = false
	if got := Classify("a plain short line", true, opts); got != LineHeading {
		t.Errorf("expected next-blank fallback heading, got %v", got)
	}
	if got := Classify("a plain short line", false, opts); got != LineBody {
		t.Errorf("expected body without following blank, got %v", got)
	}
}

func TestClassify_HeadingLengthBounds(t *testing.T) {
	opts := DefaultOptions()
	if got := Classify("AB", true, opts); got == LineHeading {
		t.Errorf("below MinHeadingChars must not be a heading")
	}
	long := "THIS HEADING RUNS FAR PAST THE CONFIGURED CEILING FOR HEADINGS"
	if got := Classify(long, true, opts); got == LineHeading {
		t.Errorf("above MaxHeadingChars must not be a heading")
	}
}

func TestClassify_BlankAndShortLines(t *testing.T) {
	opts := DefaultOptions()
	if got := Classify("   \t ", false, opts); got != LineBlank {
		t.Errorf("expected blank, got %v", got)
	}
	if got := Classify("too short", false, opts); got != LineDropped {
		t.Errorf("expected short line dropped, got %v", got)
	}
	if got := Classify("this body line is long enough to keep", false, opts); got != LineBody {
		t.Errorf("expected body, got %v", got)
	}
}
