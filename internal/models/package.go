package models

// PackageMetadata represents all pretend clients found in a package
type PackageMetadata struct {
	PackageName string           // name of the Go package
	PackagePath string           // file system path to the package
	ImportPath  string           // module import path, when known
	Clients     []ClientMetadata // valid annotated interfaces, in source order
}

// HasClients reports whether anything needs to be generated
func (p *PackageMetadata) HasClients() bool {
	return len(p.Clients) > 0
}
