// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package storage provides the storage abstraction layer for memrepo.
//
// This package defines the repository contracts that decouple calling code
// from the persistence mechanism. Two contracts exist:
//
//   - Repository: the synchronous, infallible in-process contract
//     (All, Save, FindByID, Delete). Implemented by storage/memory.
//   - Store: the same four operations with context.Context and error
//     returns, for backends that can fail. Implemented by storage/memory
//     (as an adapter) and storage/badger.
//
// # Lookup Semantics
//
// Records are kept in insertion order. Identifier uniqueness is a caller
// responsibility; nothing is validated on Save. When several records share
// an identifier, FindByID and Delete act on the first one inserted.
//
// A miss is a normal outcome, never an error:
//
//	item, ok := repo.FindByID(id)
//	if !ok {
//	    // not stored
//	}
//
// Delete of an unknown identifier is a no-op.
//
// # Usage
//
// Pure in-memory repository:
//
//	repo := memory.New[core.Item, core.ID]()
//	repo.Save(core.Item{Id: 1, Name: "first"})
//
// Badger running in in-memory mode behind the Store contract:
//
//	store, backend, err := badger.NewMemoryItemStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	defer store.Close()
//
// # Thread Safety
//
// memory.Repository assumes exclusive, single-goroutine access. Wrap it in
// memory.Synchronized (or use memory.Store) to share it across goroutines.
// Badger-backed stores are safe for concurrent use.
package storage
