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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidAnalysis indicates an Analysis failed validation.
	ErrInvalidAnalysis = errors.New("invalid analysis")

	// ErrInvalidClause indicates a Clause failed validation.
	ErrInvalidClause = errors.New("invalid clause")

	// ErrUnsupportedMediaType indicates a media type outside the upload allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrEmptyDocumentID indicates the document Id field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrEmptyDocumentName indicates the document Name field is empty.
	ErrEmptyDocumentName = errors.New("document name cannot be empty")

	// ErrRiskScoreOutOfRange indicates a risk score outside 0-100.
	ErrRiskScoreOutOfRange = errors.New("risk score must be between 0 and 100")

	// ErrRiskBandMismatch indicates a risk classification inconsistent with its score band.
	ErrRiskBandMismatch = errors.New("risk level inconsistent with score band")

	// ErrDuplicateClauseID indicates clause identifiers that collide within a document.
	ErrDuplicateClauseID = errors.New("duplicate clause id")

	// ErrEmptyClauseText indicates the clause Text field is empty.
	ErrEmptyClauseText = errors.New("clause text cannot be empty")
)
