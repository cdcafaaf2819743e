// Package consult provides question answering over stored documents.
//
// The Consultant type wires the assistant service to the document
// store: clause-level questions persist their answers onto the clause,
// chats optionally cite a stored document's text, and comparisons rank
// any set of analyzed documents.
package consult
