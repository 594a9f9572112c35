// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and the stores
// defined in internal/store.
//
// TaskService owns the task lifecycle: ownership-scoped reads and writes,
// soft delete and restore, and paginated listing. Every operation is scoped to
// the authenticated user id it receives; a task owned by someone else yields
// ErrNotOwned.
//
// The AI assistance use cases live in the assist subpackage and reach tasks
// only through TaskService. The auth subpackage validates bearer tokens.
//
// The service layer depends on domain entities and store interfaces, never on
// a specific store implementation.
package service
