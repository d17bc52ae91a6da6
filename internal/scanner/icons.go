package scanner

import (
	"path/filepath"
	"strings"
)

const (
	IconFolder = "folder"
	IconFile   = "file"
)

var iconsByExt = map[string]string{
	".go":    "go",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".jsx":   "react",
	".tsx":   "react",
	".ts":    "typescript",
	".py":    "python",
	".rb":    "ruby",
	".rs":    "rust",
	".java":  "java",
	".kt":    "kotlin",
	".cs":    "csharp",
	".php":   "php",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".md":    "markdown",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "settings",
	".xml":   "xml",
	".html":  "html",
	".css":   "css",
	".scss":  "css",
	".sh":    "shell",
	".sql":   "database",
	".png":   "image",
	".jpg":   "image",
	".jpeg":  "image",
	".gif":   "image",
	".svg":   "image",
	".zip":   "archive",
	".gz":    "archive",
	".tar":   "archive",
	".txt":   "text",
	".log":   "text",
	".lock":  "lock",

	".csproj": "dotnet",
	".fsproj": "dotnet",
	".sln":    "dotnet",
}

// Ext returns the lowercased extension of name including its dot, or "" when
// it has none. A leading dot alone does not make an extension.
func Ext(name string) string {
	ext := filepath.Ext(name)
	if len(ext) <= 1 || ext == name {
		return ""
	}
	return strings.ToLower(ext)
}

// IconFor returns the icon key for an entry
func IconFor(name string, isDir bool) string {
	if isDir {
		return IconFolder
	}
	if icon, ok := iconsByExt[Ext(name)]; ok {
		return icon
	}
	return IconFile
}
