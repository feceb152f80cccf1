package model

// Semantic landmark elements counted by the extractor.
var SemanticElements = []string{"main", "header", "nav", "article", "section", "aside", "footer"}

// EmptySemanticCounts returns a zero count for every semantic element, so every
// result serializes the same keys.
func EmptySemanticCounts() map[string]int {
	counts := make(map[string]int, len(SemanticElements))
	for _, tag := range SemanticElements {
		counts[tag] = 0
	}
	return counts
}

// DocumentFacts are the structural signals extracted from one HTML document.
type DocumentFacts struct {
	HTMLVersion        string `json:"html_version"`
	Title              string `json:"title"`
	HasDoctype         bool   `json:"has_doctype"`
	HasLangAttribute   bool   `json:"has_lang_attribute"`
	HasNonEmptyTitle   bool   `json:"has_non_empty_title"`
	HasMetaDescription bool   `json:"has_meta_description"`
	HasViewportMeta    bool   `json:"has_viewport_meta"`

	SemanticElementCounts map[string]int `json:"semantic_element_counts"`

	HeadingCount int `json:"heading_count"`
	H1Count      int `json:"h1_count"`

	NavigationCount           int `json:"navigation_count"`
	AccessibleNavigationCount int `json:"accessible_navigation_count"`
	NavigationLinkCount       int `json:"navigation_link_count"`

	FormCount              int `json:"form_count"`
	FormsWithFieldsetCount int `json:"forms_with_fieldset_count"`
	TotalFormFieldCount    int `json:"total_form_field_count"`
	LabeledFormFieldCount  int `json:"labeled_form_field_count"`

	MainTextLength              int `json:"main_text_length"`
	MeaningfulBlockElementCount int `json:"meaningful_block_element_count"`

	ImageCount         int `json:"image_count"`
	ImagesWithAltCount int `json:"images_with_alt_count"`

	AgentComponentAttributeCount int `json:"agent_component_attribute_count"`
	AgentActionAttributeCount    int `json:"agent_action_attribute_count"`
	AgentContentAttributeCount   int `json:"agent_content_attribute_count"`

	StructuredDataBlockCount int `json:"structured_data_block_count"`
	MicrodataElementCount    int `json:"microdata_element_count"`

	AriaLandmarkCount int `json:"aria_landmark_count"`
}

// TotalSemanticElements sums SemanticElementCounts.
func (f DocumentFacts) TotalSemanticElements() int {
	total := 0
	for _, n := range f.SemanticElementCounts {
		total += n
	}
	return total
}

// AgentAttributeCount sums the three agent-hint attribute counts.
func (f DocumentFacts) AgentAttributeCount() int {
	return f.AgentComponentAttributeCount + f.AgentActionAttributeCount + f.AgentContentAttributeCount
}

// AllImagesHaveAlt is true when there are no images or every image has an alt attribute.
func (f DocumentFacts) AllImagesHaveAlt() bool {
	return f.ImagesWithAltCount >= f.ImageCount
}
