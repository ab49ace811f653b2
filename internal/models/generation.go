package models

// GeneratedModule represents one generated file
type GeneratedModule struct {
	PackageName string   // name of the package
	FilePath    string   // path where the file should be written
	Content     string   // generated Go code content
	Clients     []string // interfaces implemented in the file
}
