package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/frostime/siyuan-plugin-cli/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/frostime/siyuan-plugin-cli/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/frostime/siyuan-plugin-cli/internal/version.Date={{.Date}}
)
