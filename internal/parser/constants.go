package parser

const (
	// PretendImportPath is the import path of the runtime package
	PretendImportPath = "github.com/toyz/pretend/pkg/pretend"

	// ContextImportPath is the import path of the context package
	ContextImportPath = "context"

	// GeneratedFileName is the file written for every package with clients
	GeneratedFileName = "autogen_pretend.go"
)
