package scoring

import "agentready/internal/model"

// Issue and warning texts. They are fixed strings so identical findings group
// verbatim across a batch.
const (
	IssueMissingTitle       = "Page is missing title element"
	WarnMissingDescription  = "Missing meta description"
	WarnMissingViewport     = "Missing viewport meta tag"
	IssueFewSemantic        = "Insufficient semantic HTML structure (fewer than 2 semantic elements)"
	WarnLimitedSemantic     = "Limited semantic HTML structure (fewer than 4 semantic elements)"
	IssueNoNavigation       = "No navigation element found"
	WarnInaccessibleNav     = "Navigation lacks a role or aria-label"
	WarnFewNavLinks         = "Navigation has fewer than 3 links"
	IssueUnlabeledFields    = "Too many form fields lack proper labels"
	WarnSomeUnlabeledFields = "Some form fields lack labels"
	WarnNoFieldsets         = "Forms lack fieldset grouping"
	IssueLittleText         = "Page has very little text content in initial payload"
	IssueImagesMissingAlt   = "Images missing alt text"
	WarnLimitedText         = "Limited text content in initial payload"
	WarnFewBlocks           = "Few meaningful content blocks"
	WarnNoAgentAttributes   = "No agent hint attributes found"
	WarnNoStructuredData    = "No structured data found"
	WarnNoAriaLandmarks     = "No ARIA landmarks found"
)

const (
	minSemanticElements    = 2
	targetSemanticElements = 4
	minNavigationLinks     = 3
	minLabelRatio          = 0.8
	minTextLength          = 100
	targetTextLength       = 300
	minMeaningfulBlocks    = 3
)

// Criterion scores one compliance dimension from extracted facts.
type Criterion interface {
	Name() model.CriterionName
	Score(facts model.DocumentFacts) model.CriterionResult
}

// Criteria returns the fixed, ordered criterion set.
func Criteria() []Criterion {
	return []Criterion{
		structureCriterion{},
		semanticCriterion{},
		navigationCriterion{},
		formsCriterion{},
		contentCriterion{},
		agentHintsCriterion{},
	}
}

// findings accumulates the issues and warnings of one criterion.
type findings struct {
	issues   []string
	warnings []string
}

func (f *findings) issue(cond bool, text string) {
	if cond {
		f.issues = append(f.issues, text)
	}
}

func (f *findings) warn(cond bool, text string) {
	if cond {
		f.warnings = append(f.warnings, text)
	}
}

func (f *findings) result(name model.CriterionName, score float64) model.CriterionResult {
	issues, warnings := f.issues, f.warnings
	if issues == nil {
		issues = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return model.CriterionResult{
		Name:     name,
		SubScore: clamp01(score),
		Issues:   issues,
		Warnings: warnings,
	}
}

func weight(cond bool, w float64) float64 {
	if cond {
		return w
	}
	return 0
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

type structureCriterion struct{}

func (structureCriterion) Name() model.CriterionName { return model.CriterionStructure }

func (c structureCriterion) Score(facts model.DocumentFacts) model.CriterionResult {
	var f findings
	f.issue(!facts.HasNonEmptyTitle, IssueMissingTitle)
	f.warn(!facts.HasMetaDescription, WarnMissingDescription)
	f.warn(!facts.HasViewportMeta, WarnMissingViewport)

	score := weight(facts.HasDoctype, 0.2) +
		weight(facts.HasLangAttribute, 0.2) +
		weight(facts.HasNonEmptyTitle, 0.3) +
		weight(facts.HasMetaDescription, 0.15) +
		weight(facts.HasViewportMeta, 0.15)
	return f.result(c.Name(), score)
}

type semanticCriterion struct{}

func (semanticCriterion) Name() model.CriterionName { return model.CriterionSemantic }

func (c semanticCriterion) Score(facts model.DocumentFacts) model.CriterionResult {
	total := facts.TotalSemanticElements()

	var f findings
	f.issue(total < minSemanticElements, IssueFewSemantic)
	f.warn(total >= minSemanticElements && total < targetSemanticElements, WarnLimitedSemantic)

	return f.result(c.Name(), float64(total)/targetSemanticElements)
}

type navigationCriterion struct{}

func (navigationCriterion) Name() model.CriterionName { return model.CriterionNavigation }

func (c navigationCriterion) Score(facts model.DocumentFacts) model.CriterionResult {
	var f findings
	if facts.NavigationCount == 0 {
		f.issue(true, IssueNoNavigation)
		return f.result(c.Name(), 0)
	}

	f.warn(facts.AccessibleNavigationCount == 0, WarnInaccessibleNav)
	f.warn(facts.NavigationLinkCount < minNavigationLinks, WarnFewNavLinks)

	score := 0.4 +
		weight(facts.AccessibleNavigationCount > 0, 0.3) +
		weight(facts.NavigationLinkCount >= minNavigationLinks, 0.3)
	return f.result(c.Name(), score)
}

type formsCriterion struct{}

func (formsCriterion) Name() model.CriterionName { return model.CriterionForms }

func (c formsCriterion) Score(facts model.DocumentFacts) model.CriterionResult {
	var f findings
	if facts.FormCount == 0 {
		return f.result(c.Name(), 1.0)
	}

	ratio := 1.0
	if facts.TotalFormFieldCount > 0 {
		ratio = float64(facts.LabeledFormFieldCount) / float64(facts.TotalFormFieldCount)
	}

	f.issue(ratio < minLabelRatio, IssueUnlabeledFields)
	f.warn(ratio >= minLabelRatio && ratio < 1.0, WarnSomeUnlabeledFields)
	f.warn(facts.FormsWithFieldsetCount < facts.FormCount, WarnNoFieldsets)

	return f.result(c.Name(), ratio)
}

type contentCriterion struct{}

func (contentCriterion) Name() model.CriterionName { return model.CriterionContent }

func (c contentCriterion) Score(facts model.DocumentFacts) model.CriterionResult {
	text := facts.MainTextLength
	allAlt := facts.AllImagesHaveAlt()

	var f findings
	f.issue(text < minTextLength, IssueLittleText)
	f.issue(!allAlt, IssueImagesMissingAlt)
	f.warn(text >= minTextLength && text < targetTextLength, WarnLimitedText)
	f.warn(facts.MeaningfulBlockElementCount < minMeaningfulBlocks, WarnFewBlocks)

	score := weight(text >= minTextLength, 0.4) +
		weight(text >= targetTextLength, 0.2) +
		weight(facts.MeaningfulBlockElementCount >= minMeaningfulBlocks, 0.2) +
		weight(allAlt, 0.2)
	return f.result(c.Name(), score)
}

// agentHintsCriterion is informational: it carries no weight and raises warnings only.
type agentHintsCriterion struct{}

func (agentHintsCriterion) Name() model.CriterionName { return model.CriterionAgentHints }

func (c agentHintsCriterion) Score(facts model.DocumentFacts) model.CriterionResult {
	hasAgent := facts.AgentAttributeCount() > 0
	hasData := facts.StructuredDataBlockCount > 0 || facts.MicrodataElementCount > 0
	hasLandmarks := facts.AriaLandmarkCount > 0

	var f findings
	f.warn(!hasAgent, WarnNoAgentAttributes)
	f.warn(!hasData, WarnNoStructuredData)
	f.warn(!hasLandmarks, WarnNoAriaLandmarks)

	score := (weight(hasAgent, 1) + weight(hasData, 1) + weight(hasLandmarks, 1)) / 3
	return f.result(c.Name(), score)
}
