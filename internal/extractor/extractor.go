// Package extractor computes the structural signals of an HTML payload that the
// scoring criteria consume. Parsing is permissive: malformed markup yields best-effort
// facts, never an error.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"agentready/internal/log"
	"agentready/internal/model"
)

const (
	agentComponentSuffix = "component"
	agentActionSuffix    = "action"
	agentContentSuffix   = "content"
)

// attribute prefixes recognised as agent hints, e.g. data-agent-action or agent:action
var agentAttributePrefixes = []string{"data-agent-", "agent:", "agent-"}

var ariaLandmarkRoles = map[string]bool{
	"banner":        true,
	"navigation":    true,
	"main":          true,
	"contentinfo":   true,
	"complementary": true,
	"search":        true,
	"form":          true,
	"region":        true,
}

// input types that are not user-entered fields and need no label
var unlabeledInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

const meaningfulBlockSelector = "p, li, td, article, section"

// Extract parses rawHTML and returns its DocumentFacts.
func Extract(rawHTML string) model.DocumentFacts {
	facts := model.DocumentFacts{
		HTMLVersion:           detectHTMLVersion(rawHTML),
		SemanticElementCounts: model.EmptySemanticCounts(),
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		log.Logger.Error("failed to parse HTML", zap.Error(err))
		return facts
	}

	doc := goquery.NewDocumentFromNode(root)

	facts.HasDoctype = hasDoctypeNode(root)
	extractHead(doc, &facts)
	extractSemantics(doc, &facts)
	extractNavigation(doc, &facts)
	extractForms(doc, &facts)
	extractContent(doc, &facts)
	extractAgentSignals(root, doc, &facts)

	return facts
}

// extractHead fills the document-level metadata facts.
func extractHead(doc *goquery.Document, facts *model.DocumentFacts) {
	if lang, ok := doc.Find("html").First().Attr("lang"); ok && strings.TrimSpace(lang) != "" {
		facts.HasLangAttribute = true
	}

	// svg and math carry their own <title>; only the HTML element names the document.
	title := doc.Find("title").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Nodes[0].Namespace == ""
	}).First()
	facts.Title = strings.TrimSpace(title.Text())
	facts.HasNonEmptyTitle = facts.Title != ""

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		if strings.TrimSpace(content) == "" {
			return
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "description":
			facts.HasMetaDescription = true
		case "viewport":
			facts.HasViewportMeta = true
		}
	})
}

func extractSemantics(doc *goquery.Document, facts *model.DocumentFacts) {
	for _, tag := range model.SemanticElements {
		facts.SemanticElementCounts[tag] = doc.Find(tag).Length()
	}

	headings := doc.Find("h1, h2, h3, h4, h5, h6")
	facts.HeadingCount = headings.Length()
	facts.H1Count = doc.Find("h1").Length()
}

// extractNavigation counts nav regions, those exposing an accessible name or role,
// and the links they hold.
func extractNavigation(doc *goquery.Document, facts *model.DocumentFacts) {
	doc.Find("nav").Each(func(_ int, nav *goquery.Selection) {
		facts.NavigationCount++

		node := nav.Nodes[0]
		if _, ok := attrValue(node, "role"); ok ||
			hasNonEmptyAttr(node, "aria-label") ||
			hasNonEmptyAttr(node, "aria-labelledby") {
			facts.AccessibleNavigationCount++
		}

		facts.NavigationLinkCount += nav.Find("a[href]").Length()
	})
}

// extractForms counts forms, fieldsets and user-entered fields, and how many of
// those fields carry a label.
func extractForms(doc *goquery.Document, facts *model.DocumentFacts) {
	labelTargets := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if id, _ := s.Attr("for"); strings.TrimSpace(id) != "" {
			labelTargets[strings.TrimSpace(id)] = true
		}
	})

	doc.Find("form").Each(func(_ int, form *goquery.Selection) {
		facts.FormCount++
		if form.Find("fieldset").Length() > 0 {
			facts.FormsWithFieldsetCount++
		}

		form.Find("input, select, textarea").Each(func(_ int, field *goquery.Selection) {
			node := field.Nodes[0]
			if !isLabelableField(node) {
				return
			}
			facts.TotalFormFieldCount++
			if isLabeledField(field, labelTargets) {
				facts.LabeledFormFieldCount++
			}
		})
	})
}

func isLabelableField(node *html.Node) bool {
	if node.Data != "input" {
		return true
	}
	kind, _ := attrValue(node, "type")
	return !unlabeledInputTypes[strings.ToLower(strings.TrimSpace(kind))]
}

// isLabeledField accepts a <label for> match, an ARIA name, or a wrapping <label>.
func isLabeledField(field *goquery.Selection, labelTargets map[string]bool) bool {
	node := field.Nodes[0]
	if id, ok := attrValue(node, "id"); ok && labelTargets[strings.TrimSpace(id)] {
		return true
	}
	if hasNonEmptyAttr(node, "aria-label") || hasNonEmptyAttr(node, "aria-labelledby") {
		return true
	}
	return field.ParentsFiltered("label").Length() > 0
}

// extractContent measures visible text in <main> (or <body> when there is no main),
// block-level content and image alt coverage.
func extractContent(doc *goquery.Document, facts *model.DocumentFacts) {
	container := doc.Find("main").First()
	if container.Length() == 0 {
		container = doc.Find("body").First()
	}
	if container.Length() > 0 {
		facts.MainTextLength = textLength(visibleText(container.Nodes[0]))
	}

	facts.MeaningfulBlockElementCount = doc.Find(meaningfulBlockSelector).Length()

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		facts.ImageCount++
		if _, ok := img.Attr("alt"); ok {
			facts.ImagesWithAltCount++
		}
	})
}

// extractAgentSignals counts agent-hint attributes, structured data and ARIA landmarks.
func extractAgentSignals(root *html.Node, doc *goquery.Document, facts *model.DocumentFacts) {
	walkElements(root, func(n *html.Node) {
		for _, attr := range n.Attr {
			switch agentAttributeKind(attr.Key) {
			case agentComponentSuffix:
				facts.AgentComponentAttributeCount++
			case agentActionSuffix:
				facts.AgentActionAttributeCount++
			case agentContentSuffix:
				facts.AgentContentAttributeCount++
			}
		}

		if role, ok := attrValue(n, "role"); ok {
			for _, r := range strings.Fields(strings.ToLower(role)) {
				if ariaLandmarkRoles[r] {
					facts.AriaLandmarkCount++
					break
				}
			}
		}
	})

	doc.Find("script[type]").Each(func(_ int, s *goquery.Selection) {
		kind, _ := s.Attr("type")
		if strings.EqualFold(strings.TrimSpace(kind), "application/ld+json") {
			facts.StructuredDataBlockCount++
		}
	})

	facts.MicrodataElementCount = doc.Find("[itemscope]").Length()
}

// agentAttributeKind maps an attribute key to component, action or content, or "".
func agentAttributeKind(key string) string {
	key = strings.ToLower(key)
	for _, prefix := range agentAttributePrefixes {
		if kind, ok := strings.CutPrefix(key, prefix); ok {
			return kind
		}
	}
	return ""
}
