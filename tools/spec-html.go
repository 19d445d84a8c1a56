package tools

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/twolevel/kimmo/core"

	"github.com/jsccast/yaml"
	md "github.com/russross/blackfriday/v2"
)

// RenderSpecHTML writes an HTML fragment describing a ruleset spec:
// its doc, subsets, defaults, rules, and lexicon.
func RenderSpecHTML(s *core.Spec, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	if s.Doc != "" {
		f(`<div class="specDoc doc">%s</div>`, md.Run([]byte(s.Doc)))
	}

	if 0 < len(s.Subsets) {
		f(`<div class="subsets"><h2>Subsets</h2><table>`)
		names := make([]string, 0, len(s.Subsets))
		for name := range s.Subsets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			f(`<tr><td><code>%s</code></td><td><code>%s</code></td></tr>`,
				html.EscapeString(name), html.EscapeString(s.Subsets[name]))
		}
		f(`</table></div>`)
	}

	if s.Defaults != "" {
		f(`<div class="defaults"><h2>Defaults</h2><code>%s</code></div>`,
			html.EscapeString(s.Defaults))
	}

	if 0 < len(s.Rules) {
		f(`<div class="rules"><h2>Rules</h2><table>`)
		names := make([]string, 0, len(s.Rules))
		for name := range s.Rules {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			f(`<tr class="rule"><td><span id="%s" class="ruleName">%s</span></td><td>`,
				html.EscapeString(name), html.EscapeString(name))
			switch rule := s.Rules[name].(type) {
			case string:
				if strings.Contains(rule, "\n") {
					f(`<div class="code"><pre>%s</pre></div>`, html.EscapeString(rule))
				} else {
					f(`<code>%s</code>`, html.EscapeString(rule))
				}
			default:
				js, err := json.MarshalIndent(rule, "", "  ")
				if err != nil {
					return err
				}
				f(`<div class="code"><pre>%s</pre></div>`, html.EscapeString(string(js)))
			}
			f(`</td></tr>`)
		}
		f(`</table></div>`)
	}

	if 0 < len(s.Lexicon) {
		f(`<div class="lexicon"><h2>Lexicon</h2><table>`)
		states := make([]string, 0, len(s.Lexicon))
		for state := range s.Lexicon {
			states = append(states, state)
		}
		sort.Strings(states)
		for _, state := range states {
			f(`<tr><td><span class="lexState">%s</span></td><td><pre>%s</pre></td></tr>`,
				html.EscapeString(state),
				html.EscapeString(strings.Join(s.Lexicon[state], "\n")))
		}
		f(`</table></div>`)
	}

	return nil
}

// RenderSpecPage writes a complete HTML page for a ruleset spec.
func RenderSpecPage(s *core.Spec, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/spec-html.css"}
	}

	title := s.Name
	if title == "" {
		title = "ruleset"
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(title))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(title))

	if err := RenderSpecHTML(s, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderSpecPage reads a ruleset spec from a YAML file,
// verifies that it compiles, and renders it as an HTML page.
func ReadAndRenderSpecPage(filename string, cssFiles []string, out io.Writer) error {
	specSrc, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	var spec core.Spec
	if err = yaml.Unmarshal(specSrc, &spec); err != nil {
		return err
	}

	if _, err = spec.Compile(); err != nil {
		return err
	}

	return RenderSpecPage(&spec, out, cssFiles)
}
