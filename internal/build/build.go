package build

import "time"

var (
	commit  = ""
	date    = ""
	version = "dev"
	repoURL = ""
)

func init() {
	date, _ := time.Parse(time.RFC3339, date)

	Current = Build{
		Commit:  commit,
		Version: version,
		Date:    date,
		RepoURL: repoURL,
	}
}

var Current Build

type Build struct {
	Commit  string    `json:"commit,omitempty"`
	Version string    `json:"version,omitempty"`
	Date    time.Time `json:"date,omitempty"`
	RepoURL string    `json:"repo_url,omitempty"`
}

// String is the version line printed by --version.
func (b Build) String() string {
	s := b.Version
	if b.Commit != "" {
		s += " (" + b.Commit + ")"
	}
	if !b.Date.IsZero() {
		s += " built " + b.Date.Format(time.DateOnly)
	}
	return s
}
