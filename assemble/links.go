package assemble

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/hupe1980/linkweave/model"
)

// linkPattern matches wiki links first, then markdown links. A markdown
// target is either <angle bracketed> or a single-line run that may contain
// spaces and one level of balanced parentheses ("Mercury (planet)").
var linkPattern = regexp.MustCompile(
	`\[\[([^\[\]|]+)(?:\|([^\[\]]*))?\]\]` +
		`|\[([^\[\]]*)\]\((<[^<>\n]*>|(?:[^()\n]|\([^()\n]*\))*)\)`,
)

// Link is one link occurrence in a document text.
type Link struct {
	Start, End int // byte span in the text
	Raw        string
	Label      string
	Target     string
	Wiki       bool
}

// Kind classifies a link target.
type Kind int

const (
	// Internal targets name an article title.
	Internal Kind = iota
	// External targets carry a URL scheme.
	External
	// DocReference targets already use the doc:<id> form.
	DocReference
)

// Kind reports how the link target is treated.
func (l Link) Kind() Kind {
	t := strings.TrimSpace(l.Target)
	switch {
	case strings.HasPrefix(t, "doc:"):
		return DocReference
	case strings.Contains(t, "://"), strings.HasPrefix(t, "mailto:"), strings.HasPrefix(t, "#"):
		return External
	}
	return Internal
}

// Title returns the unescaped link target.
func (l Link) Title() string {
	if s, err := url.PathUnescape(l.Target); err == nil {
		return s
	}
	return l.Target
}

// ReferenceID parses a doc:<id> target.
func (l Link) ReferenceID() (model.ID, bool) {
	s, ok := strings.CutPrefix(strings.TrimSpace(l.Target), "doc:")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return model.ID(n), true
}

// ScanLinks returns all links in text in order of appearance.
func ScanLinks(text string) []Link {
	matches := linkPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]Link, 0, len(matches))
	for _, m := range matches {
		links = append(links, linkAt(text, m))
	}
	return links
}

func linkAt(text string, m []int) Link {
	l := Link{Start: m[0], End: m[1], Raw: text[m[0]:m[1]]}
	if m[2] >= 0 {
		l.Wiki = true
		l.Target = text[m[2]:m[3]]
		if m[4] >= 0 {
			l.Label = text[m[4]:m[5]]
		}
	} else {
		l.Label = text[m[6]:m[7]]
		l.Target = strings.TrimSpace(text[m[8]:m[9]])
		if t, ok := strings.CutPrefix(l.Target, "<"); ok {
			l.Target = strings.TrimSuffix(t, ">")
		}
	}
	if strings.TrimSpace(l.Label) == "" {
		l.Label = l.Title()
	}
	return l
}

// rewriteLinks replaces every link in text with the result of fn. It returns
// text unchanged when there is no link.
func rewriteLinks(text string, fn func(Link) string) string {
	matches := linkPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m[0]])
		sb.WriteString(fn(linkAt(text, m)))
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

// Reference formats the canonical link to a document.
func Reference(label string, id model.ID) string {
	return "[" + label + "](doc:" + strconv.FormatUint(uint64(id), 10) + ")"
}
