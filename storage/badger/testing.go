// Copyright 2025 Veridian Labs
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


package badger

import "github.com/veridian/clauselens/storage"

// NewMemoryRepositories creates in-memory document, recent and user
// repositories for testing.
// Returns docRepo, recentRepo, userRepo, backend, and error.
// Caller must close the repos and backend when done.
func NewMemoryRepositories(opts ...BackendOption) (storage.DocumentRepository, storage.RecentRepository, storage.UserRepository, *Backend, error) {
	backend, err := OpenBackend("", true, opts...)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	docRepo, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, nil, err
	}

	recentRepo, err := NewRecentRepository(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	userRepo, err := NewUserRepository(backend)
	if err != nil {
		recentRepo.Close()
		docRepo.Close()
		backend.Close()
		return nil, nil, nil, nil, err
	}

	return docRepo, recentRepo, userRepo, backend, nil
}
