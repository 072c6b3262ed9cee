package ignore

// DefaultExcludePatterns lists directories and file globs that are excluded
// before any .gitignore or user-supplied rules apply. They carry the lowest
// precedence: a later negation rule can re-include any of them.
var DefaultExcludePatterns = []string{
	".git/",
	".conda/",
	".venv/",
	"venv/",
	"node_modules/",
	"__pycache__/",
	"*.pyc",
	".idea/",
	".vscode/",
	"dist/",
	"build/",
	"target/",
	".DS_Store",
	".pytest_cache/",
	".coverage/",
	"coverage/",
	"tmp/",
	"temp/",
	".next/",
	".nuxt/",
	"out/",
	".sass-cache/",
	"__tests__/__snapshots__/",
	".ipynb_checkpoints/",
	"*.lock",
}
