package processor

import "context"

// Step is one stage of the pipeline.
type Step string

const (
	StepExtract    Step = "extract"
	StepTranscribe Step = "transcribe"
	StepSummarize  Step = "summarize"
	StepDone       Step = "done"
)

// Steps lists the working stages in execution order.
var Steps = []Step{StepExtract, StepTranscribe, StepSummarize}

// Listener is told when a step starts and how far it has got.
// Calls come from the goroutine running Process.
type Listener interface {
	StepStarted(step Step)
	StepProgress(step Step, fraction float64)
}

// Input is one video to process.
type Input struct {
	VideoPath string
	// Name is the base name for the produced files; defaults to the video name.
	Name      string
	OutputDir string
	Listener  Listener
}

// Output lists what Process produced. SummaryPath and DocumentPath are
// empty when the transcript had no text.
type Output struct {
	TranscriptPath string
	SummaryPath    string
	DocumentPath   string
	Transcript     string
	Summary        string
	Segments       int
	FailedSegments int
}

// Processor runs the extract, transcribe and summarize pipeline.
type Processor interface {
	Process(ctx context.Context, in Input) (Output, error)
	// Handle processes a file dropped in the inbox and archives it.
	Handle(ctx context.Context, videoPath string) error
}
