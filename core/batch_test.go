package core

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunSuite(t *testing.T) {
	rs, err := harmonySpec(t).Compile()
	if err != nil {
		t.Fatal(err)
	}

	suite := `
; suffix vowel harmony
kop+Ør => kopar
kep+Ør <=> keper
 <= kopur          ; not a word
kop+Ør => kopor    ; wrong: should fail
`
	var report bytes.Buffer
	passed, failed, err := RunSuite(rs, strings.NewReader(suite), &report)
	if err != nil {
		t.Fatal(err)
	}
	if passed != 4 || failed != 1 {
		t.Fatalf("passed %d, failed %d:\n%s", passed, failed, report.String())
	}
	if !strings.Contains(report.String(), "Failed: got kopar") {
		t.Fatal(report.String())
	}
}

func TestRunSuiteArrowForms(t *testing.T) {
	rs, err := harmonySpec(t).Compile()
	if err != nil {
		t.Fatal(err)
	}

	// The long and short operator forms are interchangeable.
	suite := `
kop+Ør ==> kopar
kop+Ør => kopar
 <== kopur
 <= kopur
`
	var report bytes.Buffer
	passed, failed, err := RunSuite(rs, strings.NewReader(suite), &report)
	if err != nil {
		t.Fatal(err)
	}
	if passed != 4 || failed != 0 {
		t.Fatalf("passed %d, failed %d:\n%s", passed, failed, report.String())
	}
}

func TestRunSuiteNoArrow(t *testing.T) {
	rs, err := harmonySpec(t).Compile()
	if err != nil {
		t.Fatal(err)
	}
	var report bytes.Buffer
	if _, _, err = RunSuite(rs, strings.NewReader("kopar kop\n"), &report); err == nil {
		t.Fatal("wanted an error")
	}
}
