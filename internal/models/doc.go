// Package models defines domain entities and persistence interfaces for the TunePeep client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): the catalog shapes exchanged with the backend
//   - [Music] : A catalog entry (title, cover, video reference, genres, review, ranking)
//   - [Genre] : A genre tag
//   - [Ranking] : The stored admin ranking of an entry
//   - [MusicInput] : The payload for admin create/edit operations
//
// 2. Persistent Entities: rows of the local sqlite catalog cache
//   - [CachedMusic] : A cached catalog entry with sequence, timestamps, and soft delete
//
// Persistent entities implement the [Model] interface (ID, timestamps,
// validation); [Repository] defines the standard CRUD surface over them.
package models
