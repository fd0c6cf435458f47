package backend

// BackendCapability represents a capability that a backend can provide

import "slices"

type BackendCapability string

const (
	// Core capability of every backend
	CapabilityDocuments BackendCapability = "documents"

	// Extension capabilities
	CapabilityPersistent BackendCapability = "persistent"
	CapabilityCompress   BackendCapability = "compress"
	CapabilityOrdered    BackendCapability = "ordered"
)

// BackendCapabilities describes what a backend supports
type BackendCapabilities struct {
	Capabilities    []BackendCapability `json:"capabilities"`
	MaxDocumentSize int64               `json:"max_document_size"`
}

// Contains checks if a capability is supported
func (bc *BackendCapabilities) Contains(cap BackendCapability) bool {
	return slices.Contains(bc.Capabilities, cap)
}

// Strings returns the capability names, as reported by database diagnostics.
func (bc *BackendCapabilities) Strings() []string {
	names := make([]string, 0, len(bc.Capabilities))
	for _, cap := range bc.Capabilities {
		names = append(names, string(cap))
	}
	return names
}
