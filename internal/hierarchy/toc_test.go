package hierarchy

import "testing"

func TestParseTOC_DotLeadersAndIndentation(t *testing.T) {
	text := "Table of Contents\n" +
		"Chapter 1: Cells ............. 1\n" +
		"    The Cell Membrane ........ 3\n" +
		"    Organelles ............... 7\n" +
		"Chapter 2: Genetics .......... 12\n"

	units := parseTOC(text, 30)
	if len(units) != 4 {
		t.Fatalf("expected 4 units, got %d", len(units))
	}

	if units[0].Title != "Cells" || units[0].Level != 1 {
		t.Errorf("unexpected first unit %+v", units[0])
	}
	if units[1].Title != "The Cell Membrane" || units[1].Level != 2 {
		t.Errorf("unexpected second unit %+v", units[1])
	}
	if units[1].ParentID != units[0].ID {
		t.Errorf("expected indented entry to nest under chapter")
	}
	if units[3].Title != "Genetics" || units[3].PageStart != 12 {
		t.Errorf("unexpected last unit %+v", units[3])
	}

	// The chapter closes where its sibling starts.
	if units[0].PageEnd != 11 {
		t.Errorf("expected first chapter to end on page 11, got %d", units[0].PageEnd)
	}
	if units[2].PageEnd != 11 {
		t.Errorf("expected last subsection to end on page 11, got %d", units[2].PageEnd)
	}
}

func TestParseTOC_WhitespaceSeparatedPageNumbers(t *testing.T) {
	text := "Overview    2\nMethods    8\nResults    15\n"
	units := parseTOC(text, 20)
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	wantPages := []int{2, 8, 15}
	for i, u := range units {
		if u.PageStart != wantPages[i] {
			t.Errorf("unit %d: expected page %d, got %d", i, wantPages[i], u.PageStart)
		}
	}
}

func TestParseTOC_NumberingDepthBeatsIndentation(t *testing.T) {
	text := "1. Foundations ......... 1\n" +
		"1.1 History ............ 2\n" +
		"1.1.1 Early Work ....... 3\n" +
		"2. Applications ........ 9\n"

	units := parseTOC(text, 20)
	if len(units) != 4 {
		t.Fatalf("expected 4 units, got %d", len(units))
	}

	wantLevels := []int{1, 2, 3, 1}
	wantNumbers := []string{"1", "1.1", "1.1.1", "2"}
	for i, u := range units {
		if u.Level != wantLevels[i] {
			t.Errorf("unit %d: expected level %d, got %d", i, wantLevels[i], u.Level)
		}
		if u.Number != wantNumbers[i] {
			t.Errorf("unit %d: expected number %q, got %q", i, wantNumbers[i], u.Number)
		}
	}

	if units[1].ParentID != units[0].ID || units[2].ParentID != units[1].ID {
		t.Errorf("expected numbered entries to nest by depth")
	}
}

func TestParseTOC_SkipsNoiseLines(t *testing.T) {
	text := "vii\n" + // too short
		"Preface to the second edition\n" + // no page number
		"Contents ......... 999\n" + // page outside document
		"Real Entry ......... 4\n" +
		"Another Entry ....... 9\n"

	units := parseTOC(text, 10)
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[0].Title != "Real Entry" {
		t.Errorf("expected noise skipped, got %q", units[0].Title)
	}
}

func TestFromTOCText_FirstUsableCandidateWins(t *testing.T) {
	candidates := []string{
		"nothing that parses here",
		"Alpha ......... 1\nBeta ......... 5\n",
		"Gamma ......... 2\nDelta ......... 6\n",
	}
	units := fromTOCText(candidates, 10)
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[0].Title != "Alpha" {
		t.Errorf("expected first usable candidate, got %q", units[0].Title)
	}
}

func TestNumberingLevel_TokenForms(t *testing.T) {
	cases := []struct {
		title      string
		wantLevel  int
		wantNumber string
	}{
		{"3. Waves", 1, "3"},
		{"3.2 Interference", 2, "3.2"},
		{"3.2.1 Double Slit", 3, "3.2.1"},
		{"A. Appendix", 1, "A"},
		{"iv. Preface", 1, "iv"},
		{"Unnumbered Heading", 1, ""},
	}
	for _, c := range cases {
		level, number := numberingLevel(c.title)
		if level != c.wantLevel || number != c.wantNumber {
			t.Errorf("%q: expected (%d, %q), got (%d, %q)",
				c.title, c.wantLevel, c.wantNumber, level, number)
		}
	}
}
