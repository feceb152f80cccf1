package extractor

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestDetectHTMLVersion(t *testing.T) {
	tests := []struct {
		name     string
		rawHTML  string
		expected string
	}{
		{
			name:     "HTML5 doctype",
			rawHTML:  "<!DOCTYPE html><html><head><title>Test</title></head></html>",
			expected: "HTML5",
		},
		{
			name:     "HTML5 doctype case insensitive",
			rawHTML:  "<!doctype HTML><html><head><title>Test</title></head></html>",
			expected: "HTML5",
		},
		{
			name:     "XHTML 1.0 doctype",
			rawHTML:  `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd"><html></html>`,
			expected: "XHTML 1.0",
		},
		{
			name:     "HTML 4.01 doctype",
			rawHTML:  `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd"><html></html>`,
			expected: "HTML 4.01",
		},
		{
			name:     "No doctype",
			rawHTML:  "<html><head><title>Test</title></head></html>",
			expected: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detectHTMLVersion(tt.rawHTML)
			if result != tt.expected {
				t.Errorf("detectHTMLVersion() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestVisibleText(t *testing.T) {
	tests := []struct {
		name     string
		htmlStr  string
		expected string
	}{
		{
			name:     "Collapses whitespace",
			htmlStr:  "<p>  Hello \n\n  world  </p>",
			expected: "Hello world",
		},
		{
			name:     "Skips script and style",
			htmlStr:  "<p>Visible</p><script>var hidden = 1;</script><style>p{color:red}</style>",
			expected: "Visible",
		},
		{
			name:     "Separates adjacent blocks",
			htmlStr:  "<p>One</p><p>Two</p>",
			expected: "One Two",
		},
		{
			name:     "Empty body",
			htmlStr:  "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := html.Parse(strings.NewReader(tt.htmlStr))
			if err != nil {
				t.Fatalf("Failed to parse HTML: %v", err)
			}
			result := visibleText(node)
			if result != tt.expected {
				t.Errorf("visibleText() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractHead(t *testing.T) {
	facts := Extract(`<!DOCTYPE html><html lang="en"><head>
		<title>  Docs  </title>
		<meta name="Description" content="About this page">
		<meta name="viewport" content="width=device-width">
	</head><body></body></html>`)

	if !facts.HasDoctype {
		t.Error("HasDoctype = false, want true")
	}
	if !facts.HasLangAttribute {
		t.Error("HasLangAttribute = false, want true")
	}
	if !facts.HasNonEmptyTitle || facts.Title != "Docs" {
		t.Errorf("Title = %q, want %q", facts.Title, "Docs")
	}
	if !facts.HasMetaDescription {
		t.Error("HasMetaDescription = false, want true")
	}
	if !facts.HasViewportMeta {
		t.Error("HasViewportMeta = false, want true")
	}
	if facts.HTMLVersion != "HTML5" {
		t.Errorf("HTMLVersion = %v, want HTML5", facts.HTMLVersion)
	}
}

func TestExtractHeadMissing(t *testing.T) {
	facts := Extract(`<html lang=" "><head><title>   </title><meta name="description" content=""></head></html>`)

	if facts.HasDoctype || facts.HasLangAttribute || facts.HasNonEmptyTitle || facts.HasMetaDescription || facts.HasViewportMeta {
		t.Errorf("expected all head facts false, got %+v", facts)
	}

	tests := []struct {
		name  string
		html  string
		title string
	}{
		{"svg icon title only", `<html><body><svg><title>Logo</title></svg><p>x</p></body></html>`, ""},
		{"math title only", `<html><body><math><title>Formula</title></math></body></html>`, ""},
		{"document title after svg", `<html><head><title>Docs</title></head><body><svg><title>Logo</title></svg></body></html>`, "Docs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := Extract(tt.html)
			if facts.Title != tt.title || facts.HasNonEmptyTitle != (tt.title != "") {
				t.Errorf("Title = %q, HasNonEmptyTitle = %v, want %q", facts.Title, facts.HasNonEmptyTitle, tt.title)
			}
		})
	}
}

func TestExtractSemantics(t *testing.T) {
	facts := Extract(`<body><header></header><nav></nav><main><article><section></section><section></section></article><aside></aside></main><footer></footer>
		<h1>A</h1><h2>B</h2><h2>C</h2></body>`)

	expected := map[string]int{
		"main": 1, "header": 1, "nav": 1, "article": 1, "section": 2, "aside": 1, "footer": 1,
	}
	for tag, want := range expected {
		if got := facts.SemanticElementCounts[tag]; got != want {
			t.Errorf("SemanticElementCounts[%s] = %d, want %d", tag, got, want)
		}
	}
	if facts.TotalSemanticElements() != 8 {
		t.Errorf("TotalSemanticElements() = %d, want 8", facts.TotalSemanticElements())
	}
	if facts.HeadingCount != 3 || facts.H1Count != 1 {
		t.Errorf("headings = %d/%d, want 3/1", facts.HeadingCount, facts.H1Count)
	}
}

func TestExtractNavigation(t *testing.T) {
	tests := []struct {
		name               string
		htmlStr            string
		navCount           int
		accessibleNavCount int
		navLinkCount       int
	}{
		{
			name:    "No nav",
			htmlStr: `<body><a href="/">Home</a></body>`,
		},
		{
			name:               "Nav with role",
			htmlStr:            `<nav role="navigation"><a href="/">Home</a><a href="/a">A</a><a>no href</a></nav>`,
			navCount:           1,
			accessibleNavCount: 1,
			navLinkCount:       2,
		},
		{
			name:               "Nav with aria-label and plain nav",
			htmlStr:            `<nav aria-label="Main"><a href="/">Home</a></nav><nav><a href="/x">X</a></nav>`,
			navCount:           2,
			accessibleNavCount: 1,
			navLinkCount:       2,
		},
		{
			name:               "Nav with aria-labelledby",
			htmlStr:            `<h2 id="t">Menu</h2><nav aria-labelledby="t"></nav>`,
			navCount:           1,
			accessibleNavCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := Extract(tt.htmlStr)
			if facts.NavigationCount != tt.navCount {
				t.Errorf("NavigationCount = %d, want %d", facts.NavigationCount, tt.navCount)
			}
			if facts.AccessibleNavigationCount != tt.accessibleNavCount {
				t.Errorf("AccessibleNavigationCount = %d, want %d", facts.AccessibleNavigationCount, tt.accessibleNavCount)
			}
			if facts.NavigationLinkCount != tt.navLinkCount {
				t.Errorf("NavigationLinkCount = %d, want %d", facts.NavigationLinkCount, tt.navLinkCount)
			}
		})
	}
}

func TestExtractForms(t *testing.T) {
	tests := []struct {
		name          string
		htmlStr       string
		forms         int
		withFieldset  int
		totalFields   int
		labeledFields int
	}{
		{
			name:    "No forms",
			htmlStr: `<body><input id="stray"></body>`,
		},
		{
			name: "Label for, aria and unlabeled",
			htmlStr: `<form>
				<label for="email">Email</label><input id="email" type="email">
				<input type="text" aria-label="Name">
				<textarea id="msg"></textarea>
				<input type="hidden" name="csrf"><input type="submit" value="Send">
			</form>`,
			forms:         1,
			totalFields:   3,
			labeledFields: 2,
		},
		{
			name: "Wrapping label and fieldset",
			htmlStr: `<form><fieldset><legend>Pick</legend>
				<label>Size <select name="size"><option>1</option></select></label>
			</fieldset></form><form><input name="q"></form>`,
			forms:         2,
			withFieldset:  1,
			totalFields:   2,
			labeledFields: 1,
		},
		{
			name:          "Label for pointing at unknown id",
			htmlStr:       `<form><label for="nope">X</label><input id="yes"></form>`,
			forms:         1,
			totalFields:   1,
			labeledFields: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := Extract(tt.htmlStr)
			if facts.FormCount != tt.forms {
				t.Errorf("FormCount = %d, want %d", facts.FormCount, tt.forms)
			}
			if facts.FormsWithFieldsetCount != tt.withFieldset {
				t.Errorf("FormsWithFieldsetCount = %d, want %d", facts.FormsWithFieldsetCount, tt.withFieldset)
			}
			if facts.TotalFormFieldCount != tt.totalFields {
				t.Errorf("TotalFormFieldCount = %d, want %d", facts.TotalFormFieldCount, tt.totalFields)
			}
			if facts.LabeledFormFieldCount != tt.labeledFields {
				t.Errorf("LabeledFormFieldCount = %d, want %d", facts.LabeledFormFieldCount, tt.labeledFields)
			}
		})
	}
}

func TestExtractContent(t *testing.T) {
	t.Run("Prefers main over body", func(t *testing.T) {
		facts := Extract(`<body><div>outside text that is ignored</div><main><p>abc</p><script>ignored()</script></main></body>`)
		if facts.MainTextLength != 3 {
			t.Errorf("MainTextLength = %d, want 3", facts.MainTextLength)
		}
	})

	t.Run("Falls back to body", func(t *testing.T) {
		facts := Extract(`<body><p>hello</p> <p>wörld</p><style>.x{}</style></body>`)
		if facts.MainTextLength != len([]rune("hello wörld")) {
			t.Errorf("MainTextLength = %d, want %d", facts.MainTextLength, len([]rune("hello wörld")))
		}
	})

	t.Run("Blocks and images", func(t *testing.T) {
		facts := Extract(`<body><p>a</p><ul><li>1</li><li>2</li></ul><table><tr><td>c</td></tr></table>
			<img src="a.png" alt="A"><img src="b.png" alt=""><img src="c.png"></body>`)
		if facts.MeaningfulBlockElementCount != 4 {
			t.Errorf("MeaningfulBlockElementCount = %d, want 4", facts.MeaningfulBlockElementCount)
		}
		if facts.ImageCount != 3 || facts.ImagesWithAltCount != 2 {
			t.Errorf("images = %d/%d, want 3/2", facts.ImagesWithAltCount, facts.ImageCount)
		}
		if facts.AllImagesHaveAlt() {
			t.Error("AllImagesHaveAlt() = true, want false")
		}
	})
}

func TestExtractAgentSignals(t *testing.T) {
	facts := Extract(`<body>
		<header role="banner"></header>
		<div data-agent-component="cart" data-agent-action="checkout"></div>
		<div data-agent-content="price" data-agent-unknown="x"></div>
		<button agent-action="buy"></button>
		<div role="presentation"></div><div role="main region"></div>
		<div itemscope itemtype="https://schema.org/Product"></div>
		<script type="application/ld+json">{"@type":"Organization"}</script>
		<script type="text/javascript"></script>
	</body>`)

	if facts.AgentComponentAttributeCount != 1 {
		t.Errorf("AgentComponentAttributeCount = %d, want 1", facts.AgentComponentAttributeCount)
	}
	if facts.AgentActionAttributeCount != 2 {
		t.Errorf("AgentActionAttributeCount = %d, want 2", facts.AgentActionAttributeCount)
	}
	if facts.AgentContentAttributeCount != 1 {
		t.Errorf("AgentContentAttributeCount = %d, want 1", facts.AgentContentAttributeCount)
	}
	if facts.AriaLandmarkCount != 2 {
		t.Errorf("AriaLandmarkCount = %d, want 2", facts.AriaLandmarkCount)
	}
	if facts.StructuredDataBlockCount != 1 {
		t.Errorf("StructuredDataBlockCount = %d, want 1", facts.StructuredDataBlockCount)
	}
	if facts.MicrodataElementCount != 1 {
		t.Errorf("MicrodataElementCount = %d, want 1", facts.MicrodataElementCount)
	}
}

func TestExtractMalformedHTML(t *testing.T) {
	inputs := []string{
		"",
		"<<<>>>",
		"<html><body><form><input id=a><label for=a>x</form></table></div>",
		"<main><p>unclosed <b>bold <i>italic</main>",
		"\x00\xff<img>",
	}

	for _, in := range inputs {
		facts := Extract(in)
		if facts.LabeledFormFieldCount > facts.TotalFormFieldCount {
			t.Errorf("Extract(%q): labeled %d > total %d", in, facts.LabeledFormFieldCount, facts.TotalFormFieldCount)
		}
		if facts.ImagesWithAltCount > facts.ImageCount {
			t.Errorf("Extract(%q): images with alt %d > images %d", in, facts.ImagesWithAltCount, facts.ImageCount)
		}
		if facts.AccessibleNavigationCount > facts.NavigationCount {
			t.Errorf("Extract(%q): accessible nav %d > nav %d", in, facts.AccessibleNavigationCount, facts.NavigationCount)
		}
		if facts.FormsWithFieldsetCount > facts.FormCount {
			t.Errorf("Extract(%q): fieldset forms %d > forms %d", in, facts.FormsWithFieldsetCount, facts.FormCount)
		}
		if len(facts.SemanticElementCounts) != 7 {
			t.Errorf("Extract(%q): %d semantic counters, want 7", in, len(facts.SemanticElementCounts))
		}
	}
}
