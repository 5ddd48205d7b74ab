// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The question answering path is:
//
//	LoaderService -> IndexService -> Retriever -> Answerer -> Session
//
// Services are pure Go with no CGO.
package services
