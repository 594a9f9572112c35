// Package memory provides in-process implementations of the store interfaces.
// They back the server when database.driver is "memory" and keep unit tests
// free of a database. Data is lost when the process exits.
package memory
