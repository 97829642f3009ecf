// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that decouple the
// submission path from background processing: the extraction service emits a
// task request event when a job is accepted, without knowing which handler
// will queue the work. That keeps the service free of task-package imports
// and avoids circular dependencies.
//
// The primary components are:
// - TaskRequestEvent: Represents a request to create a background task
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
