// Package models defines the core domain models for latepizza.
//
// # Models
//
//   - Group: a named set of members sharing one slice formula configuration
//   - Member: a participant with a pizza-slice balance
//   - Meeting: an immutable record of lateness awarded at one meeting
//   - Correction: an immutable admin adjustment to one member's balance
//   - User: a registered identity; its Email is the actor identity used for
//     authorization against a group's admin emails
//
// # Design Principles
//
// 1. **Strong typing**: persisted rows are decoded into these structs once, in
// the storage adapters, with defaults applied there
// 2. **Weak references**: meetings and corrections reference members by ID only,
// so removing a member never rewrites history
// 3. **Avoid circular references**: use ID strings instead of pointers for relationships
package models
