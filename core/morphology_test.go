package core

import (
	"testing"
)

func testLexicon(t *testing.T) *Morphology {
	t.Helper()
	m, err := ParseLexicon(map[string][]string{
		"Begin": {
			"kop Stems +N",
			"kep Stems +N",
		},
		"Stems": {
			"+Ør End +sfx",
			"0 End",
		},
		"End": {
			"# End",
		},
	}, "0")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMorphologyNextStates(t *testing.T) {
	m := testLexicon(t)

	if m.Start() != "Begin" {
		t.Fatal(m.Start())
	}

	arcs := m.NextStates("Begin", "kop")
	if len(arcs) != 1 || arcs[0].State != "Stems" || arcs[0].Feature != "+N" {
		t.Fatal(arcs)
	}
	if arcs = m.NextStates("Begin", "ko"); arcs != nil {
		t.Fatal(arcs)
	}
	// the null morpheme matches the empty prefix
	arcs = m.NextStates("Stems", "")
	if len(arcs) != 1 || arcs[0].State != "End" {
		t.Fatal(arcs)
	}
}

func TestMorphologyValidLexical(t *testing.T) {
	m := testLexicon(t)

	chars := m.ValidLexical("Begin", "k")
	if !chars["o"] || !chars["e"] || chars["p"] {
		t.Fatal(chars)
	}
	// multibyte symbols survive
	chars = m.ValidLexical("Stems", "+")
	if !chars["Ø"] {
		t.Fatal(chars)
	}
	if chars = m.ValidLexical("Begin", "kop"); 0 < len(chars) {
		t.Fatal(chars)
	}
}

func TestMorphologyRecognized(t *testing.T) {
	m := testLexicon(t)
	if !m.Recognized("End") || !m.Recognized("end") {
		t.Fatal("End should be recognized")
	}
	if m.Recognized("Begin") {
		t.Fatal("Begin should not be recognized")
	}
}

func TestParseLexiconErrors(t *testing.T) {
	for _, section := range []map[string][]string{
		{"Begin": {"kop"}},
		{"Begin": {"kop Stems +N extra"}},
	} {
		if _, err := ParseLexicon(section, "0"); err == nil {
			t.Fatalf("wanted an error for %v", section)
		}
	}
}

func TestParseLexiconEmptyCycle(t *testing.T) {
	// A cycle of empty morphemes consumes nothing, so the search
	// could follow it forever.
	for _, section := range []map[string][]string{
		{
			"Begin": {"0 Loop"},
			"Loop":  {"0 Begin"},
		},
		{
			"Begin": {"0 Begin"},
		},
	} {
		if _, err := ParseLexicon(section, "0"); err == nil {
			t.Fatalf("wanted an error for %v", section)
		}
	}

	// A lone empty morpheme is fine.
	if _, err := ParseLexicon(map[string][]string{
		"Begin": {"0 End"},
		"End":   {"# End"},
	}, "0"); err != nil {
		t.Fatal(err)
	}
}
