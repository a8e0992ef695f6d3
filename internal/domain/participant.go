// Package domain contains entity without logic, just meta-data
package domain

// ConnID identifies one live transport session. It exists only while
// the connection is open.
type ConnID string

// Participant is the identity of one joined connection. Created on
// join, dropped on disconnect, never mutated in between.
type Participant struct {
	ConnID   ConnID `json:"-"`
	Username string `json:"username"`
	Color    string `json:"color"`
}
