package domain

// Mount binds a host directory into a container.
type Mount struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	ReadOnly bool   `json:"read_only"`
}

// RunRequest describes a one-shot container run.
type RunRequest struct {
	Image  string   `json:"image"`
	Args   []string `json:"args"`
	Mounts []Mount  `json:"mounts"`
}

// RunResult is the outcome of a container that ran to completion.
type RunResult struct {
	ID       string `json:"id"`
	ExitCode int64  `json:"exit_code"`
	Logs     string `json:"logs"`
}

// BuildRequest describes a local image build from a written spec document.
type BuildRequest struct {
	ContextDir string            `json:"context_dir"`
	SpecPath   string            `json:"spec_path"`
	Tag        string            `json:"tag"`
	Labels     map[string]string `json:"labels,omitempty"`
}
