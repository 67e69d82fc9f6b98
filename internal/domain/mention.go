package domain

// Verification statuses reported per model
const (
	StatusSuccess         = "success"
	StatusError           = "error"
	StatusSnapshotPending = "snapshot_pending"
	StatusRunning         = "running"
)

// DefaultMentionModels are queried when the caller does not name any
var DefaultMentionModels = []string{"gpt-4o-mini", "gemini-1.5-flash", "perplexity", "copilot"}

// MentionRequest asks several answer engines the same prompt and grades each answer for a brand mention
type MentionRequest struct {
	Prompt   string   `json:"prompt"`
	Brand    string   `json:"brand"`
	URL      string   `json:"url"`
	Location string   `json:"location"`
	Models   []string `json:"models"`
}

// MentionAnalysis is the grader's structured verdict on one answer
type MentionAnalysis struct {
	IsMentioned     bool     `json:"is_mentioned"`
	Sentiment       string   `json:"sentiment"`
	IsCited         bool     `json:"is_cited"`
	CitationURLs    []string `json:"citation_urls"`
	Rank            int      `json:"rank"`
	MentionSnippet  string   `json:"mention_snippet"`
	VisibilityScore int      `json:"visibility_score"`
}

// ModelVerification is the outcome for a single model
type ModelVerification struct {
	Model      string           `json:"model"`
	Status     string           `json:"status"`
	Response   string           `json:"response,omitempty"`
	Analysis   *MentionAnalysis `json:"analysis,omitempty"`
	Error      string           `json:"error,omitempty"`
	SnapshotID string           `json:"snapshot_id,omitempty"`
}

// MentionReport collects the per-model outcomes in request order
type MentionReport struct {
	Brand        string              `json:"brand"`
	URL          string              `json:"url"`
	Prompt       string              `json:"prompt"`
	Location     string              `json:"location"`
	Verification []ModelVerification `json:"verification"`
}

// SnapshotRequest polls a pending answer engine snapshot
type SnapshotRequest struct {
	SnapshotID string `json:"snapshot_id"`
	Brand      string `json:"brand"`
	URL        string `json:"url"`
	Model      string `json:"model"`
}

// SnapshotReport is the outcome of a snapshot poll
type SnapshotReport struct {
	Status   string           `json:"status"`
	Model    string           `json:"model,omitempty"`
	Response string           `json:"response,omitempty"`
	Analysis *MentionAnalysis `json:"analysis,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// AnswerResult is what an answer engine scrape returned: either text or a pending snapshot
type AnswerResult struct {
	Text       string
	SnapshotID string
}

// SnapshotState is the state of a polled snapshot; Text is set once it has finished
type SnapshotState struct {
	Running bool
	Text    string
}
