package extractor

import "testing"

func TestDecodeContentStream_ShowTextOperators(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n72 700 Td\n(Chapter 1) Tj\n0 -14 Td\n(Cells and Life) Tj\nET\n")
	got := decodeContentStream(stream)
	want := "Chapter 1\nCells and Life"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDecodeContentStream_ArrayAndQuoteOperators(t *testing.T) {
	stream := []byte("[(Hel) -20 (lo)] TJ\n(world)'\n")
	got := decodeContentStream(stream)
	want := "Hello\nworld"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDecodeContentStream_NewlineOperator(t *testing.T) {
	stream := []byte("(first) Tj\nT*\n(second) Tj\n")
	got := decodeContentStream(stream)
	if got != "first\nsecond" {
		t.Errorf("expected line break from T*, got %q", got)
	}
}

func TestDecodePDFString_Escapes(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`plain`, "plain"},
		{`paren \( inside \)`, "paren ( inside )"},
		{`back\\slash`, `back\slash`},
		{`tab\there`, "tab\there"},
		{`oct\101l`, "octAl"},
		{`\110\145\171`, "Hey"},
	}
	for _, c := range cases {
		if got := decodePDFString([]byte(c.raw)); got != c.want {
			t.Errorf("%q: expected %q, got %q", c.raw, c.want, got)
		}
	}
}

func TestPDFStringRe_EscapedParens(t *testing.T) {
	line := []byte(`(a \(nested\) string) Tj`)
	m := pdfStringRe.FindAllSubmatch(line, -1)
	if len(m) != 1 {
		t.Fatalf("expected 1 literal, got %d", len(m))
	}
	if got := decodePDFString(m[0][1]); got != "a (nested) string" {
		t.Errorf("unexpected decoded literal %q", got)
	}
}

func TestForFile_AdapterSelection(t *testing.T) {
	if _, err := ForFile("report.PDF", Options{}); err != nil {
		t.Errorf("expected pdf adapter, got error %v", err)
	}
	if _, err := ForFile("notes.txt", Options{}); err != nil {
		t.Errorf("expected text adapter, got error %v", err)
	}
	if _, err := ForFile("data.xlsx", Options{}); err == nil {
		t.Errorf("expected error for unsupported extension")
	}

	if !IsSupportedExtension("a.pdf") || IsSupportedExtension("a.docx") {
		t.Errorf("unexpected supported extension report")
	}
}
