package pipeline

import (
	"mindgraph/internal/cluster"
	"mindgraph/internal/config"
	"mindgraph/internal/extractor"
	"mindgraph/internal/graph"
)

const (
	AIModel  = "production-hybrid"
	Accuracy = "high"
)

type Options struct {
	Extractor extractor.Options
	Cluster   cluster.Options
	Layout    graph.LayoutOptions
}

func DefaultOptions() Options {
	return Options{
		Extractor: extractor.DefaultOptions(),
		Cluster:   cluster.DefaultOptions(),
		Layout:    graph.DefaultLayoutOptions(),
	}
}

// OptionsFromConfig maps the pipeline section of the configuration onto stage options.
func OptionsFromConfig(p config.Pipeline) Options {
	opts := DefaultOptions()

	opts.Extractor.MinImportance = p.MinConceptImportance
	opts.Extractor.BaseImportance = p.BaseImportance
	opts.Extractor.LengthStep = p.LengthStep
	opts.Extractor.LengthCap = p.LengthCap
	opts.Extractor.CapitalizedBonus = p.CapitalizedBonus
	opts.Extractor.TechnicalBonus = p.TechnicalBonus
	opts.Extractor.DefinitionBonus = p.DefinitionBonus

	opts.Cluster.BaseThreshold = p.BaseSimilarity
	opts.Cluster.ImportanceFactor = p.ImportanceThresholdFactor
	opts.Cluster.CategoryBonus = p.CategoryBonus
	opts.Cluster.MinImportance = p.MinClusterImportance
	if p.MaxRelated > 0 {
		opts.Cluster.MaxRelated = p.MaxRelated
	}

	if p.MaxSubNodes > 0 {
		opts.Layout.MaxSubNodes = p.MaxSubNodes
	}
	if p.CenterX > 0 {
		opts.Layout.CenterX = p.CenterX
	}
	if p.CenterY > 0 {
		opts.Layout.CenterY = p.CenterY
	}
	return opts
}
