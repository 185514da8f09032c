package search

// Stage is one phase of the staged search pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StageRetrieving
	StageAnalyzing
	StageGenerating
	StageSettled
	StageFailed
)

// String returns the machine name of the stage.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageRetrieving:
		return "retrieving"
	case StageAnalyzing:
		return "analyzing"
	case StageGenerating:
		return "generating"
	case StageSettled:
		return "settled"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Title returns the user-facing headline for an in-flight stage.
func (s Stage) Title() string {
	switch s {
	case StageRetrieving:
		return "Retrieving Documents"
	case StageAnalyzing:
		return "Analyzing Content"
	case StageGenerating:
		return "Generating Answer"
	default:
		return ""
	}
}

// Description returns the user-facing detail line for an in-flight stage.
func (s Stage) Description() string {
	switch s {
	case StageRetrieving:
		return "Searching through your knowledge base..."
	case StageAnalyzing:
		return "Finding relevant passages and evidence..."
	case StageGenerating:
		return "Synthesizing information from sources..."
	default:
		return ""
	}
}

// PipelineStages lists the in-flight stages in order, for progress displays.
var PipelineStages = []Stage{StageRetrieving, StageAnalyzing, StageGenerating}
