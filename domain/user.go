// Package domain contains core concepts of the chat system.
// No runtime, network, or UI logic should be added here.
package domain

// User is created at registration and immutable afterwards.
// Users are never deleted; only room membership is revoked.
type User struct {
	ID   string
	Name string
}
