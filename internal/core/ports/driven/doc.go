// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PageFetcher: Downloads configured pages
//   - Normaliser: Transforms raw page bytes into text
//   - NormaliserRegistry: Selects appropriate normaliser
//   - PostProcessorPipeline: Splits documents into chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Persists embeddings and answers similarity queries
//   - LLMService: Chat completion
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - services fall back to built-in defaults:
//
//   - PromptStore: User-editable prompt templates
//   - AIConfigValidator: Connectivity checks for provider settings
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
