package tools

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInline(t *testing.T) {
	input := `
rules:
  epenthesis: %inline("epenthesis")
  harmony: %inline("harmony")
`
	want := `
rules:
  epenthesis: EPENTHESIS
  harmony: HARMONY
`

	find := func(name string) ([]byte, error) {
		return []byte(strings.ToUpper(name)), nil
	}

	got, err := Inline([]byte(input), find)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("got %s", got)
	}
}

func TestInlineError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Inline([]byte(`%inline("gone")`), func(string) ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatal(err)
	}
}

func TestReadFileWithInlines(t *testing.T) {
	dir, err := ioutil.TempDir("", "inline")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if err = ioutil.WriteFile(filepath.Join(dir, "part"), []byte("PART"), 0644); err != nil {
		t.Fatal(err)
	}
	if err = ioutil.WriteFile(filepath.Join(dir, "doc"), []byte(`before %inline("part") after`), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFileWithInlines(filepath.Join(dir, "doc"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "before PART after" {
		t.Fatalf("got %s", got)
	}
}
