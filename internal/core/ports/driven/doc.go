// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DocumentProcessor: Validates PDFs and extracts text/metadata
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Persists and searches embeddings
//   - Provider: Generates responses from a language model
//
// # Optional Interfaces
//
//   - PromptStore: User-editable prompt templates. When nil, services
//     fall back to embedded defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
