package core

import (
	"testing"
)

func mustArrow(t *testing.T, text string, subsets Subsets) *Rule {
	t.Helper()
	r, err := NewArrowRule("test", text, subsets)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestArrowRestriction(t *testing.T) {
	r := mustArrow(t, "a:b ==> c _ d", nil)

	// in context
	if got := run(t, r, nil, "c:c", "a:b", "d:d"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	// left context can be any suffix of the history
	if got := run(t, r, nil, "k:k", "c:c", "a:b", "d:d"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	// no left context
	if got := run(t, r, nil, "a:b"); got != Reject {
		t.Fatal(got)
	}
	// wrong right context
	if got := run(t, r, nil, "c:c", "a:b", "x:x"); got != Reject {
		t.Fatal(got)
	}
	// word ends before the right context
	if got := run(t, r, nil, "c:c", "a:b"); got == Reject || r.Final(got) {
		t.Fatal(got)
	}
	// unrelated pairs pass freely
	if got := run(t, r, nil, "x:x", "d:d", "c:c"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
}

func TestArrowCoercion(t *testing.T) {
	r := mustArrow(t, "a:b <== c _ d", nil)

	// the required realization is fine
	if got := run(t, r, nil, "c:c", "a:b", "d:d"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	// any other realization of a in the full context is forbidden
	if got := run(t, r, nil, "c:c", "a:a", "d:d"); got != Reject {
		t.Fatal(got)
	}
	// outside the left context there is no coercion
	if got := run(t, r, nil, "a:a", "d:d"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	// the right context never completes
	if got := run(t, r, nil, "c:c", "a:a", "x:x"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	// the word can end with the threat still open
	if got := run(t, r, nil, "c:c", "a:a"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
}

func TestArrowCoercionEmptyRight(t *testing.T) {
	r := mustArrow(t, "a:b <== c _", nil)

	if got := run(t, r, nil, "c:c", "a:a"); got != Reject {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "c:c", "a:b"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "a:a"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
}

func TestArrowBoth(t *testing.T) {
	r := mustArrow(t, "a:b <=> c _ d", nil)

	if got := run(t, r, nil, "c:c", "a:b", "d:d"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "a:b", "d:d"); got != Reject {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "c:c", "a:a", "d:d"); got != Reject {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "c:c", "a:b"); got == Reject || r.Final(got) {
		t.Fatal(got)
	}
}

func TestArrowNever(t *testing.T) {
	r := mustArrow(t, "a:b /<= c _ d", nil)

	if got := run(t, r, nil, "c:c", "a:b", "d:d"); got != Reject {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "c:c", "a:b", "x:x"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "a:b", "d:d"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
}

func TestArrowSubsetContext(t *testing.T) {
	subsets := Subsets{"V": {"a", "e"}}
	r := mustArrow(t, "x:y ==> V _", subsets)

	if got := run(t, r, subsets, "e:e", "x:y"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, subsets, "k:k", "x:y"); got != Reject {
		t.Fatal(got)
	}
	if got := run(t, r, subsets, "x:y"); got != Reject {
		t.Fatal(got)
	}
}

func TestArrowAlternation(t *testing.T) {
	r := mustArrow(t, "a:b ==> [c d] _", nil)

	if got := run(t, r, nil, "c:c", "a:b"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "d:d", "a:b"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "x:x", "a:b"); got != Reject {
		t.Fatal(got)
	}
}

func TestArrowRepetition(t *testing.T) {
	// one or more c's immediately before
	r := mustArrow(t, "a:b ==> c& _", nil)

	if got := run(t, r, nil, "c:c", "a:b"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "c:c", "c:c", "a:b"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "a:b"); got != Reject {
		t.Fatal(got)
	}
}

func TestArrowOptional(t *testing.T) {
	r := mustArrow(t, "a:b ==> c d? _", nil)

	if got := run(t, r, nil, "c:c", "a:b"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "c:c", "d:d", "a:b"); got == Reject || !r.Final(got) {
		t.Fatal(got)
	}
	if got := run(t, r, nil, "d:d", "a:b"); got != Reject {
		t.Fatal(got)
	}
}

func TestArrowParseErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"a:b",
		"a:b c _ d",
		"a:b ==> c d",
		"a:b ==> ( c _ d",
		"a:b ==> [ _ d",
		"a:b ==> c _ d extra ==>",
		":b ==> c _ d",
	} {
		if _, err := NewArrowRule("bad", text, nil); err == nil {
			t.Fatalf("wanted an error for %q", text)
		}
	}
}
