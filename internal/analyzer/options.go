package analyzer

// AnalysisOptions provides per-request configuration for screen analysis.
// Options travel with the call so concurrent requests with different device
// densities cannot interfere.
type AnalysisOptions struct {
	// DensityScale converts pixel lengths to density-independent pixels
	// (dp = px / DensityScale). Supplied by the caller, never inferred.
	DensityScale float64

	// Contrast thresholds (WCAG 2.1)
	MinContrastRatio          float64
	HighSeverityContrastRatio float64

	// Corrective-color search: foreground channels are perturbed in
	// multiples of SuggestionStep up to SuggestionRadius steps away.
	SuggestionStep   int
	SuggestionRadius int
	MaxSuggestions   int

	// EdgeExclusionBand is the fraction of the inter-cluster luminance span
	// around the midpoint within which pixels are treated as anti-aliased
	// edges and excluded from cluster assignment.
	EdgeExclusionBand float64

	// Text recovery via OCR for elements whose XML carries no text.
	RecoverText bool
	OCRLanguage string

	// UseWorkerPool fans per-element color extraction out on the shared
	// worker pool; disabled, extraction runs serially in document order.
	UseWorkerPool bool
}

// DefaultOptions returns default analysis options.
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		DensityScale:              1.0,
		MinContrastRatio:          4.5,
		HighSeverityContrastRatio: 3.0,
		SuggestionStep:            17,
		SuggestionRadius:          4,
		MaxSuggestions:            5,
		EdgeExclusionBand:         0.15,
		RecoverText:               false,
		OCRLanguage:               "eng",
		UseWorkerPool:             true,
	}
}

// FastOptions returns options for fast analysis: color extraction fans out on
// all CPUs and the suggestion search is narrowed.
func FastOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.SuggestionRadius = 2
	opts.MaxSuggestions = 3
	return opts
}

// WithDensity returns options with the given density scale factor.
func (opts AnalysisOptions) WithDensity(density float64) AnalysisOptions {
	if density > 0 {
		opts.DensityScale = density
	}
	return opts
}

// WithTextRecovery enables OCR text recovery with the given language.
func (opts AnalysisOptions) WithTextRecovery(language string) AnalysisOptions {
	opts.RecoverText = true
	if language != "" {
		opts.OCRLanguage = language
	}
	return opts
}

// normalized replaces out-of-range values with defaults so a zero-valued
// options struct still produces a deterministic, sane run.
func (opts AnalysisOptions) normalized() AnalysisOptions {
	def := DefaultOptions()
	if opts.DensityScale <= 0 {
		opts.DensityScale = def.DensityScale
	}
	if opts.MinContrastRatio <= 1 {
		opts.MinContrastRatio = def.MinContrastRatio
	}
	if opts.HighSeverityContrastRatio <= 1 {
		opts.HighSeverityContrastRatio = def.HighSeverityContrastRatio
	}
	if opts.SuggestionStep <= 0 {
		opts.SuggestionStep = def.SuggestionStep
	}
	if opts.SuggestionRadius <= 0 {
		opts.SuggestionRadius = def.SuggestionRadius
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = def.MaxSuggestions
	}
	if opts.EdgeExclusionBand <= 0 || opts.EdgeExclusionBand >= 0.5 {
		opts.EdgeExclusionBand = def.EdgeExclusionBand
	}
	return opts
}
