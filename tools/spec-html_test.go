package tools

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsccast/yaml"
)

func TestRenderSpecHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSpecHTML(testSpec(t), &buf); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{"specDoc", "Subsets", "harmony", "Lexicon", "kop Stems +N"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %s", want, got)
		}
	}
}

func TestRenderSpecPage(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSpecPage(testSpec(t), &buf, nil); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "<title>harmony</title>") {
		t.Fatal(got)
	}
	if !strings.Contains(got, "spec-html.css") {
		t.Fatal(got)
	}
}

func TestReadAndRenderSpecPage(t *testing.T) {
	dir, err := ioutil.TempDir("", "spec-html")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	bs, err := yaml.Marshal(testSpec(t))
	if err != nil {
		t.Fatal(err)
	}
	filename := filepath.Join(dir, "harmony.yaml")
	if err = ioutil.WriteFile(filename, bs, 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err = ReadAndRenderSpecPage(filename, nil, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "harmony") {
		t.Fatal(buf.String())
	}

	// a spec that doesn't compile is an error
	if err = ioutil.WriteFile(filename, []byte("rules:\n  broken: 'a:b c _ d'\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err = ReadAndRenderSpecPage(filename, nil, &buf); err == nil {
		t.Fatal("wanted an error")
	}
}
