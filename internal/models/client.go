package models

import "github.com/toyz/pretend/pkg/pretend/descriptor"

// ClientMetadata is a validated //pretend::client interface together with the
// source details code generation needs to reproduce its method set.
type ClientMetadata struct {
	Name       string
	FileName   string
	Descriptor *descriptor.InterfaceDescriptor
	Methods    []MethodSignature // parallel to Descriptor.Methods
	Imports    []Import          // imports of the declaring file

	// Names under which the declaring file refers to the runtime and
	// context packages; empty when the file does not import them.
	PretendQualifier string
	ContextQualifier string
}

// MethodSignature is a method exactly as written in the interface
type MethodSignature struct {
	Name    string
	Params  []Param
	Results []string
}

// Param is a named parameter with its type expression
type Param struct {
	Name string
	Type string
}

// Import is one import spec; Name is empty for the default package name
type Import struct {
	Name string
	Path string
}
