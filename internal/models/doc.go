// Package models defines catalog DTOs and locally persisted entities for the Sonata client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs decoded from the remote API
//   - [Song] : Playable entry with audio and cover URLs
//   - [Artist], [Album], [Genre], [Category], [Period], [Orchestra] : Browsable catalog entities
//   - [Session], [Account] : Login and registration results
//   - [Credentials], [Registration], [CategoryInput] : Form bodies
//
// 2. Persistent Entities: database-backed models implementing [Model]
//   - [Token] : Listener or contributor bearer token kept between runs
//
// The Repository[T] interface defines standard CRUD operations for database access.
package models
