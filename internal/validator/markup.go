package validator

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Unresolved template tokens left behind by a generator: {{name}}, ${name},
// or __NAME__ sentinels.
var placeholderRes = []*regexp.Regexp{
	regexp.MustCompile(`\{\{[^{}]*\}\}`),
	regexp.MustCompile(`\$\{[^{}]*\}`),
	regexp.MustCompile(`__[A-Z0-9_]{2,}__`),
}

// ValidateMarkup runs a structural sanity check over generated presentation
// output: the document must parse as markup, contain html and body elements,
// have a non-empty body, and carry no unresolved placeholder tokens. It
// shares the gate contract with the dataset validators but inspects
// presentation output, not pipeline data.
func ValidateMarkup(filePath string) (*Report, error) {
	report := &Report{FilePath: filePath, Check: "markup"}

	data, err := os.ReadFile(filePath) // #nosec G304 -- validator receives caller-provided paths
	if err != nil {
		return nil, fmt.Errorf("error reading document: %w", err)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		report.addBlocking(fmt.Errorf("document %s is empty", filePath))
		return report, nil
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		report.addBlocking(fmt.Errorf("document is not well-formed markup: %w", err))
		return report, nil
	}

	var hasHTML, hasBody, bodyHasContent bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				hasHTML = true
			case "body":
				hasBody = true
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode ||
						(c.Type == html.TextNode && strings.TrimSpace(c.Data) != "") {
						bodyHasContent = true
						break
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !hasHTML || !hasBody {
		report.addBlocking(fmt.Errorf("document lacks html/body structure"))
	} else if !bodyHasContent {
		report.addBlocking(fmt.Errorf("document body is empty"))
	}

	for _, re := range placeholderRes {
		for _, match := range re.FindAllString(content, -1) {
			report.addBlocking(fmt.Errorf("unresolved placeholder token %q", match))
		}
	}

	return report, nil
}
